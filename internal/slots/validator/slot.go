package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rezerveo/pkg/logger"
	"rezerveo/pkg/model"

	"github.com/go-playground/validator/v10"
)

var serviceTypes = map[string]struct{}{
	model.ServiceOilChange:             {},
	model.ServiceTireReplacement:       {},
	model.ServiceGeneralCheckup:        {},
	model.ServiceBrakePadReplacement:   {},
	model.ServiceBatteryReplacement:    {},
	model.ServiceAirFilterReplacement:  {},
	model.ServiceFuelFilterReplacement: {},
	model.ServiceSparkPlugReplacement:  {},
	model.ServiceEngineDiagnostics:     {},
	model.ServiceWheelAlignment:        {},
	model.ServiceAirConditioning:       {},
	model.ServiceTransmission:          {},
	model.ServiceSuspensionRepair:      {},
	model.ServiceCoolantFlush:          {},
	model.ServiceExhaustRepair:         {},
	model.ServiceElectricalDiagnostics: {},
	model.ServiceBrakeFluidReplacement: {},
	model.ServiceChainReplacement:      {},
	model.ServiceLightBulbReplacement:  {},
	model.ServiceDetailing:             {},
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewSlotValidator(log *logger.Logger) *SlotValidator {
	v := validator.New()

	if err := v.RegisterValidation("service_type", validateServiceType); err != nil {
		log.Fatal("Failed to register 'service_type' validator",
			"error", err,
		)
	}

	return &SlotValidator{
		validate: v,
		logger:   log,
		now:      time.Now,
	}
}

func validateServiceType(fl validator.FieldLevel) bool {
	_, ok := serviceTypes[fl.Field().String()]
	return ok
}

// ValidateCreate checks a slot publication request: well-formed date
// and times, end strictly after start, a known service type, and a
// window that has not already passed.
func (sv *SlotValidator) ValidateCreate(req *model.CreateSlotRequest) error {
	var result ValidationErrors

	if err := sv.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fe := range validationErrs {
				result = append(result, ValidationError{
					Field:   fieldName(fe.Field()),
					Message: fieldMessage(fe),
				})
			}
		} else {
			result = append(result, ValidationError{Field: "request", Message: err.Error()})
		}
	}

	// Both times are HH:MM, so string order is time order. Only
	// meaningful once both parsed cleanly.
	if req.StartTime != "" && req.EndTime != "" && !hasFieldError(result, "start_time") && !hasFieldError(result, "end_time") {
		if req.EndTime <= req.StartTime {
			result = append(result, ValidationError{
				Field:   "end_time",
				Message: "end time must be after start time",
			})
		}
	}

	// Future-or-present: a slot may start at this very minute, but not
	// earlier. Dates and times are lexicographic in storage layout.
	if req.Date != "" && !hasFieldError(result, "date") {
		now := sv.now().UTC()
		today := now.Format(model.DateLayout)
		if req.Date < today {
			result = append(result, ValidationError{
				Field:   "date",
				Message: "date must not be in the past",
			})
		} else if req.Date == today && req.StartTime != "" && !hasFieldError(result, "start_time") {
			if req.StartTime < now.Format(model.TimeLayout) {
				result = append(result, ValidationError{
					Field:   "start_time",
					Message: "start time must not be in the past",
				})
			}
		}
	}

	if len(result) > 0 {
		return result
	}
	return nil
}

func hasFieldError(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func fieldName(structField string) string {
	switch structField {
	case "Date":
		return "date"
	case "StartTime":
		return "start_time"
	case "EndTime":
		return "end_time"
	case "ServiceType":
		return "service_type"
	default:
		return strings.ToLower(structField)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must match format %s", fe.Param())
	case "service_type":
		return "is not an offered service"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
