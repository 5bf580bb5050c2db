package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a fixed starting
// instant, a sequence of transitions and expectations on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// StartTime is the fixed clock's starting instant, RFC 3339.
	StartTime string `yaml:"start_time"`

	// Steps is the transition sequence.
	Steps []Step `yaml:"steps"`

	// FinalVault asserts on live vault revisions after all steps ran.
	FinalVault []VaultExpectation `yaml:"final_vault,omitempty"`
}

// Step is one scenario step. Exactly one of Create, Pay or Advance must
// be set.
type Step struct {
	Create  *CreateStep `yaml:"create,omitempty"`
	Pay     *PayStep    `yaml:"pay,omitempty"`
	Advance string      `yaml:"advance,omitempty"` // Go duration, e.g. "720h"

	// Expect specifies the expected verdict. Required on create and pay
	// steps, forbidden on advance.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// CreateStep issues a new IOU.
type CreateStep struct {
	Lender       string `yaml:"lender"`
	Borrower     string `yaml:"borrower"`
	Principal    int64  `yaml:"principal"`
	InterestRate int64  `yaml:"interest_rate"`
	DueDate      string `yaml:"due_date"` // RFC 3339
}

// PayStep settles an open IOU by its linear ID.
type PayStep struct {
	ID     string `yaml:"id"`
	Amount int64  `yaml:"amount"`
}

// ExpectClause specifies the expected verdict of a step.
type ExpectClause struct {
	// Verdict is "accepted" or "rejected".
	Verdict string `yaml:"verdict"`

	// Rules pins the exact set of failed rule codes on rejection.
	// If empty, any rejection matches.
	Rules []string `yaml:"rules,omitempty"`
}

// VaultExpectation asserts on the live revision of one instrument.
type VaultExpectation struct {
	ID           string `yaml:"id"`
	Status       string `yaml:"status"`
	PaymentValue int64  `yaml:"payment_value"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly instead of silently skipping an
// expectation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.StartTime == "" {
		return fmt.Errorf("start_time is required")
	}
	if _, err := time.Parse(time.RFC3339, s.StartTime); err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, exp := range s.FinalVault {
		if exp.ID == "" {
			return fmt.Errorf("final_vault[%d]: id is required", i)
		}
		if exp.Status != "created" && exp.Status != "paid" {
			return fmt.Errorf("final_vault[%d]: status must be created or paid, got %q", i, exp.Status)
		}
	}

	return nil
}

// validateStep checks that a step names exactly one action and carries
// a well-formed expectation.
func validateStep(index int, step *Step) error {
	actions := 0
	if step.Create != nil {
		actions++
	}
	if step.Pay != nil {
		actions++
	}
	if step.Advance != "" {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("steps[%d]: exactly one of create, pay or advance is required", index)
	}

	if step.Advance != "" {
		if step.Expect != nil {
			return fmt.Errorf("steps[%d]: advance takes no expect clause", index)
		}
		if _, err := time.ParseDuration(step.Advance); err != nil {
			return fmt.Errorf("steps[%d]: advance: %w", index, err)
		}
		return nil
	}

	if step.Expect == nil {
		return fmt.Errorf("steps[%d]: expect is required on create and pay steps", index)
	}
	switch step.Expect.Verdict {
	case "accepted":
		if len(step.Expect.Rules) > 0 {
			return fmt.Errorf("steps[%d].expect: rules only apply to rejections", index)
		}
	case "rejected":
	default:
		return fmt.Errorf("steps[%d].expect: verdict must be accepted or rejected, got %q", index, step.Expect.Verdict)
	}

	if step.Create != nil {
		c := step.Create
		if c.Lender == "" || c.Borrower == "" {
			return fmt.Errorf("steps[%d].create: lender and borrower are required", index)
		}
		if c.DueDate == "" {
			return fmt.Errorf("steps[%d].create: due_date is required", index)
		}
		if _, err := time.Parse(time.RFC3339, c.DueDate); err != nil {
			return fmt.Errorf("steps[%d].create: due_date: %w", index, err)
		}
	}

	if step.Pay != nil && step.Pay.ID == "" {
		return fmt.Errorf("steps[%d].pay: id is required", index)
	}

	return nil
}
