package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CampaignParameters is the structured brief that drives generation.
type CampaignParameters struct {
	SelectedEpisodes []string `json:"selectedEpisodes" validate:"required,min=1,dive,required"`
	CampaignGoal     string   `json:"campaignGoal" validate:"required"`
	CampaignKPIs     []string `json:"campaignKPIs" validate:"required,min=1,dive,required"`
	Gender           string   `json:"gender" validate:"required"`
	Ethnicity        []string `json:"ethnicity" validate:"required,min=1,dive,required"`
	Age              []string `json:"age" validate:"required,min=1,dive,required"`
	FansOf           []string `json:"fansOf" validate:"required,min=1,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every list is non-empty and the scalar fields are set.
func (p *CampaignParameters) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return "at least one value is required"
		}
		return "is required"
	case "min":
		return fmt.Sprintf("at least %s value(s) required", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// DefaultCampaignParameters is substituted when automated analysis fails.
func DefaultCampaignParameters() CampaignParameters {
	return CampaignParameters{
		SelectedEpisodes: []string{"Sample Episode 1", "Sample Episode 2"},
		CampaignGoal:     "Increase brand awareness",
		CampaignKPIs:     []string{"Grow audience engagement"},
		Gender:           "All",
		Ethnicity:        []string{"All ethnicities"},
		Age:              []string{"18 to 34 years old"},
		FansOf:           []string{"Drama", "Entertainment"},
	}
}

// Clone returns a deep copy so stored snapshots never alias caller slices.
func (p CampaignParameters) Clone() CampaignParameters {
	return CampaignParameters{
		SelectedEpisodes: append([]string(nil), p.SelectedEpisodes...),
		CampaignGoal:     p.CampaignGoal,
		CampaignKPIs:     append([]string(nil), p.CampaignKPIs...),
		Gender:           p.Gender,
		Ethnicity:        append([]string(nil), p.Ethnicity...),
		Age:              append([]string(nil), p.Age...),
		FansOf:           append([]string(nil), p.FansOf...),
	}
}
