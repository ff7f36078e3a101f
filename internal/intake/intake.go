// Package intake validates inbound loan applications before they enter the
// pipeline. Malformed payloads are rejected here so later stages can assume
// a structurally sound application.
package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"bank-automation/internal/common/errors"
	"bank-automation/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const applicationSchema = `{
	"type": "object",
	"required": ["id", "customerId", "loanType", "requestedAmount"],
	"properties": {
		"id":         {"type": "string", "minLength": 1},
		"customerId": {"type": "string", "minLength": 1},
		"loanType": {
			"type": "string",
			"enum": ["personal", "mortgage", "auto", "business"]
		},
		"requestedAmount": {"type": "number", "exclusiveMinimum": 0},
		"currency":        {"type": "string", "minLength": 3, "maxLength": 3},
		"documents": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type"],
				"properties": {
					"type": {
						"type": "string",
						"enum": ["income_proof", "bank_statement", "identity", "tax_return"]
					},
					"extractionRef": {"type": "string"}
				}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(applicationSchema)

// Validate checks the application against the intake schema. A nil
// application or any schema violation returns a MALFORMED_APPLICATION
// stage error listing every violated field.
func Validate(app *models.LoanApplication) *errors.StageError {
	if app == nil {
		return errors.NewMalformedApplicationError("application is nil")
	}

	doc, err := json.Marshal(app)
	if err != nil {
		return errors.NewMalformedApplicationError(fmt.Sprintf("unserializable application: %v", err))
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errors.NewMalformedApplicationError(fmt.Sprintf("schema validation: %v", err))
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return errors.NewMalformedApplicationError(strings.Join(violations, "; "))
}
