package main

import (
	bookingshandler "rezerveo/internal/bookings/handler"
	bookingsrepo "rezerveo/internal/bookings/repository"
	bookingsservice "rezerveo/internal/bookings/service"
	"rezerveo/internal/notification"
	slotshandler "rezerveo/internal/slots/handler"
	slotsrepo "rezerveo/internal/slots/repository"
	slotsservice "rezerveo/internal/slots/service"
	"rezerveo/internal/slots/validator"
	"rezerveo/internal/sweeper"
	"rezerveo/pkg/app"
	"rezerveo/pkg/config"
	"rezerveo/pkg/kafka"
	kafkaconfig "rezerveo/pkg/kafka/config"
)

const ServiceName = "booking"

// producerWorker adapts the Kafka producer to the application's
// worker shutdown hook.
type producerWorker struct {
	producer *kafka.Producer
	cfg      *config.Config
}

func (w *producerWorker) Stop() {
	if err := w.producer.Close(); err != nil {
		w.cfg.Log.Error("Failed to close Kafka producer", "error", err)
	}
}

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting booking service")

	producer := initProducer(cfg)
	notifier := notification.NewKafkaNotifier(producer, ServiceName, cfg.NotifyTimeout, cfg.Log)

	slotRepo := slotsrepo.NewMongoSlotRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	claimRepo := bookingsrepo.NewSlotClaimRepository(cfg)

	slotValidator := validator.NewSlotValidator(cfg.Log)
	slotService := slotsservice.NewSlotService(slotRepo, bookingRepo, slotValidator, notifier, cfg)
	bookingService := bookingsservice.NewBookingService(bookingRepo, claimRepo, slotRepo, notifier, cfg)

	completionSweeper := sweeper.New(bookingRepo, cfg.SweepInterval, cfg.Log)
	completionSweeper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.AddWorker(completionSweeper)
	serverApp.AddWorker(&producerWorker{producer: producer, cfg: cfg})
	serverApp.SetApp(
		slotshandler.NewSlotHandler(slotService, bookingService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	producerCfg := kafkaconfig.LoadProducerConfig()
	producer, err := kafka.NewProducer(producerCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return producer
}
