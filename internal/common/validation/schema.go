// internal/common/validation/schema.go
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"match-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrProfileInvalid  = errors.New("PROFILE_VALIDATION_FAILED")
	ErrFeedbackInvalid = errors.New("INVALID_FEEDBACK")
)

var (
	profileOnce   sync.Once
	profileSchema *gojsonschema.Schema
	profileErr    error

	feedbackOnce   sync.Once
	feedbackSchema *gojsonschema.Schema
	feedbackErr    error
)

// ValidateProfile checks a profile against the ingestion schema. Every set the scorers
// read must be present (possibly empty) and every enum value must be known.
func ValidateProfile(p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is required", ErrProfileInvalid)
	}
	profileOnce.Do(func() {
		profileSchema, profileErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(ProfileSchema()))
	})
	if profileErr != nil {
		return fmt.Errorf("compile profile schema: %w", profileErr)
	}
	return validate(profileSchema, p, ErrProfileInvalid)
}

// ValidateFeedback checks a feedback event before it is persisted.
func ValidateFeedback(ev *models.FeedbackEvent) error {
	if ev == nil {
		return fmt.Errorf("%w: event is required", ErrFeedbackInvalid)
	}
	feedbackOnce.Do(func() {
		feedbackSchema, feedbackErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(FeedbackSchema()))
	})
	if feedbackErr != nil {
		return fmt.Errorf("compile feedback schema: %w", feedbackErr)
	}
	if err := validate(feedbackSchema, ev, ErrFeedbackInvalid); err != nil {
		return err
	}
	if ev.UserID == ev.TargetID {
		return fmt.Errorf("%w: targetId must differ from userId", ErrFeedbackInvalid)
	}
	return nil
}

func validate(schema *gojsonschema.Schema, doc interface{}, sentinel error) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(errs, "; "))
}

// ==========================
// Schemas
// ==========================

func ProfileSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"userId", "identity", "location", "availability", "sectors", "skills", "values", "personality", "offers", "seeks", "state"},
		"properties": map[string]interface{}{
			"userId": map[string]interface{}{"type": "string", "minLength": 1},
			"identity": object([]string{"languages"}, map[string]interface{}{
				"languages": stringArray(),
			}),
			"location": object([]string{"lat", "lng", "radiusKm"}, map[string]interface{}{
				"lat":      numberRange(-90, 90),
				"lng":      numberRange(-180, 180),
				"radiusKm": map[string]interface{}{"type": "number", "minimum": 0},
				"remote":   map[string]interface{}{"type": "boolean"},
			}),
			"availability": object([]string{"timeSlots", "formats"}, map[string]interface{}{
				"timeSlots": enumArray(enumOf(models.AllTimeSlots)),
				"formats":   enumArray(enumOf(models.AllFormats)),
			}),
			"sectors": enumArray(enumOf(models.AllSectors)),
			"skills": object([]string{"seniority"}, map[string]interface{}{
				"hard":      nullableStringArray(),
				"soft":      nullableStringArray(),
				"seniority": map[string]interface{}{"type": "string", "enum": enumOf(models.AllSeniorities)},
			}),
			"values": enumArray(enumOf(models.AllValues)),
			"personality": object(
				[]string{"openness", "conscientiousness", "extraversion", "agreeableness", "emotionalStability"},
				map[string]interface{}{
					"openness":           numberRange(0, 100),
					"conscientiousness":  numberRange(0, 100),
					"extraversion":       numberRange(0, 100),
					"agreeableness":      numberRange(0, 100),
					"emotionalStability": numberRange(0, 100),
				}),
			"offers": stringArray(),
			"seeks":  stringArray(),
			"preferences": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"customWeights": weightsSchema(),
					"radiusKm":      map[string]interface{}{"type": "number", "minimum": 0},
				},
			},
			"activity": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"signals": object(nil, map[string]interface{}{
						"views":   nonNegativeInt(),
						"likes":   nonNegativeInt(),
						"replies": nonNegativeInt(),
						"noShows": nonNegativeInt(),
					}),
				},
			},
			"state": object([]string{"openToMatching"}, map[string]interface{}{
				"openToMatching": map[string]interface{}{"type": "boolean"},
				"blockedIds":     nullableStringArray(),
			}),
			"version": map[string]interface{}{"type": "integer", "minimum": 0},
		},
	}
}

func FeedbackSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"userId", "targetId", "event"},
		"properties": map[string]interface{}{
			"userId":   map[string]interface{}{"type": "string", "minLength": 1},
			"targetId": map[string]interface{}{"type": "string", "minLength": 1},
			"event":    map[string]interface{}{"type": "string", "enum": enumOf(models.AllFeedbackTypes)},
		},
	}
}

func weightsSchema() map[string]interface{} {
	props := map[string]interface{}{}
	for _, w := range models.DefaultWeights().Named() {
		props[w.Name] = map[string]interface{}{"type": "number", "minimum": 0}
	}
	return map[string]interface{}{
		"type":       []string{"object", "null"},
		"properties": props,
	}
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func stringArray() map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}}
}

func nullableStringArray() map[string]interface{} {
	return map[string]interface{}{"type": []string{"array", "null"}, "items": map[string]interface{}{"type": "string"}}
}

func enumArray(values []string) map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string", "enum": values},
	}
}

func numberRange(min, max float64) map[string]interface{} {
	return map[string]interface{}{"type": "number", "minimum": min, "maximum": max}
}

func nonNegativeInt() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": 0}
}

func enumOf[T ~string](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it)
	}
	return out
}
