package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RegistrationStep is one validated page of the provider registration wizard.
// The concrete step types are the only implementations.
type RegistrationStep interface {
	stepName() string
}

type BusinessStep struct {
	BusinessName string `json:"businessName"`
	ProviderType string `json:"providerType"` // "service" or "craft"
	Description  string `json:"description"`
}

type ContactStep struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type LocationStep struct {
	County  string `json:"county"`
	Town    string `json:"town"`
	Address string `json:"address,omitempty"`
}

type CatalogueStep struct {
	Categories []string `json:"categories"`
	LogoURL    string   `json:"logoUrl,omitempty"`
}

func (BusinessStep) stepName() string  { return "business" }
func (ContactStep) stepName() string   { return "contact" }
func (LocationStep) stepName() string  { return "location" }
func (CatalogueStep) stepName() string { return "catalogue" }

// RawRegistrationStep is the wire form: a step tag plus its data.
type RawRegistrationStep struct {
	Step string          `json:"step" binding:"required"`
	Data json.RawMessage `json:"data" binding:"required"`
}

// Decode turns the wire form into its typed step.
func (r RawRegistrationStep) Decode() (RegistrationStep, error) {
	var step RegistrationStep
	switch r.Step {
	case "business":
		var s BusinessStep
		if err := json.Unmarshal(r.Data, &s); err != nil {
			return nil, fmt.Errorf("business step: %w", err)
		}
		step = s
	case "contact":
		var s ContactStep
		if err := json.Unmarshal(r.Data, &s); err != nil {
			return nil, fmt.Errorf("contact step: %w", err)
		}
		step = s
	case "location":
		var s LocationStep
		if err := json.Unmarshal(r.Data, &s); err != nil {
			return nil, fmt.Errorf("location step: %w", err)
		}
		step = s
	case "catalogue":
		var s CatalogueStep
		if err := json.Unmarshal(r.Data, &s); err != nil {
			return nil, fmt.Errorf("catalogue step: %w", err)
		}
		step = s
	default:
		return nil, fmt.Errorf("unknown registration step %q", r.Step)
	}
	return step, nil
}

// ProviderRegistrationRequest carries every wizard step at submission time.
type ProviderRegistrationRequest struct {
	Steps []RawRegistrationStep `json:"steps" binding:"required,min=1,dive"`
}

// Provider is the strongly typed record produced by a completed wizard.
type Provider struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"user_id" json:"userId"`
	BusinessName string    `bson:"business_name" json:"businessName"`
	ProviderType string    `bson:"provider_type" json:"providerType"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	County       string    `bson:"county" json:"county"`
	Town         string    `bson:"town" json:"town"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	Categories   []string  `bson:"categories,omitempty" json:"categories,omitempty"`
	LogoURL      string    `bson:"logo_url,omitempty" json:"logoUrl,omitempty"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// CombineRegistration merges the wizard steps into one provider record. Every step
// must be present exactly once; later validation of field contents is the form's job,
// only required fields are checked here.
func CombineRegistration(steps ...RegistrationStep) (Provider, error) {
	var (
		p    Provider
		seen = map[string]bool{}
	)
	for _, step := range steps {
		name := step.stepName()
		if seen[name] {
			return Provider{}, fmt.Errorf("duplicate %s step", name)
		}
		seen[name] = true

		switch s := step.(type) {
		case BusinessStep:
			if s.BusinessName == "" || s.ProviderType == "" {
				return Provider{}, fmt.Errorf("business step: businessName and providerType are required")
			}
			p.BusinessName = s.BusinessName
			p.ProviderType = s.ProviderType
			p.Description = s.Description
		case ContactStep:
			if s.Email == "" || s.Phone == "" {
				return Provider{}, fmt.Errorf("contact step: email and phone are required")
			}
			p.Email = s.Email
			p.Phone = s.Phone
		case LocationStep:
			if s.County == "" || s.Town == "" {
				return Provider{}, fmt.Errorf("location step: county and town are required")
			}
			p.County = s.County
			p.Town = s.Town
			p.Address = s.Address
		case CatalogueStep:
			p.Categories = s.Categories
			p.LogoURL = s.LogoURL
		}
	}
	for _, required := range []string{"business", "contact", "location", "catalogue"} {
		if !seen[required] {
			return Provider{}, fmt.Errorf("missing %s step", required)
		}
	}
	return p, nil
}
