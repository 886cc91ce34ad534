package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rezerveo/internal/notification"
	"rezerveo/pkg/config"
	"rezerveo/pkg/kafka"
	kafkaconfig "rezerveo/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting notifier service")

	consumerCfg := kafkaconfig.LoadConsumerConfig(cfg.BookingEventsTopic)
	producerCfg := kafkaconfig.LoadProducerConfig()

	consumer, err := kafka.NewConsumer(consumerCfg, producerCfg, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka consumer", "error", err)
	}

	dispatcher := notification.NewDispatcher(&notification.LogSender{Log: cfg.Log}, cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Consuming booking events", "topic", consumerCfg.Topic, "group", consumerCfg.GroupID)
	if err := consumer.Run(ctx, dispatcher.Handle); err != nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
