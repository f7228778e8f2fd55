package middleware

import (
	"testing"

	"github.com/eaglebank/account-api/shared/models"
)

func strPtr(s string) *string { return &s }

func TestValidateRequest_AccountSchema(t *testing.T) {
	tests := []struct {
		name       string
		schema     models.AccountSchema
		wantFields []string
	}{
		{
			name: "valid account",
			schema: models.AccountSchema{
				Name: "Ana", LastName: "Ruiz", Email: "a@x.com", Password: "p1", UserType: "standard",
			},
			wantFields: nil,
		},
		{
			name:       "missing everything",
			schema:     models.AccountSchema{},
			wantFields: []string{"name", "lastName", "email", "password", "userType"},
		},
		{
			name: "bad email and unknown user type",
			schema: models.AccountSchema{
				Name: "Ana", LastName: "Ruiz", Email: "not-an-email", Password: "p1", UserType: "root",
			},
			wantFields: []string{"email", "userType"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRequest(tt.schema)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.wantFields), len(errs), errs)
			}
			for i, f := range tt.wantFields {
				if errs[i].Field != f {
					t.Errorf("error %d: expected field %q, got %q", i, f, errs[i].Field)
				}
			}
		})
	}
}

func TestValidateRequest_UpdateSchema(t *testing.T) {
	if errs := ValidateRequest(models.AccountUpdateSchema{Password: strPtr("p2")}); errs != nil {
		t.Errorf("expected partial update to validate, got %v", errs)
	}
	if errs := ValidateRequest(models.AccountUpdateSchema{}); errs != nil {
		t.Errorf("expected empty update to validate, got %v", errs)
	}

	errs := ValidateRequest(models.AccountUpdateSchema{Email: strPtr("nope"), UserType: strPtr("root")})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if got, want := errs.Error(), `"email" must be a valid email`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
