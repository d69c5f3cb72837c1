package normalize

import (
	"testing"

	"student-crm/core/lms"
	"student-crm/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     lms.Record
		want    reconcile.Record
		wantErr error
	}{
		{
			name: "Full Name Split",
			raw:  lms.Record{"_id": "abc", "phoneNumber": "+91 99887 76655", "name": "Meera Nair"},
			want: reconcile.Record{ExternalID: "abc", FirstName: "Meera", LastName: "Nair", Phone: "+919988776655"},
		},
		{
			name: "Single Name",
			raw:  lms.Record{"_id": "abc", "mobile": "9988776655", "name": "  Meera  "},
			want: reconcile.Record{ExternalID: "abc", FirstName: "Meera", LastName: "", Phone: "9988776655"},
		},
		{
			name: "Remainder Kept Verbatim",
			raw:  lms.Record{"_id": "abc", "mobile": "9988776655", "name": "Meera  Devi Nair"},
			want: reconcile.Record{ExternalID: "abc", FirstName: "Meera", LastName: " Devi Nair", Phone: "9988776655"},
		},
		{
			name: "Explicit Names Win",
			raw:  lms.Record{"id": "x1", "mobile": "9988776655", "first_name": "Anu", "name": "Ignored Name"},
			want: reconcile.Record{ExternalID: "x1", FirstName: "Anu", Phone: "9988776655"},
		},
		{
			name: "Aliases And Numeric Values",
			raw:  lms.Record{"id": float64(42), "mobile": float64(9988776655), "emailAddress": "m@x.io"},
			want: reconcile.Record{ExternalID: "42", Phone: "9988776655", Email: "m@x.io"},
		},
		{
			name: "Primary Keys Preferred",
			raw:  lms.Record{"_id": "a", "id": "b", "phoneNumber": "9000000001", "mobile": "9000000002", "email": "e@x.io", "emailAddress": "f@x.io"},
			want: reconcile.Record{ExternalID: "a", Phone: "9000000001", Email: "e@x.io"},
		},
		{
			name:    "Nine Digits Skipped",
			raw:     lms.Record{"_id": "abc", "mobile": "987 654 321"},
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "Missing Phone",
			raw:     lms.Record{"_id": "abc", "name": "No Phone"},
			wantErr: ErrInvalidPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Meera Nair", DisplayName(lms.Record{"name": "Meera Nair"}))
	assert.Equal(t, "Anu", DisplayName(lms.Record{"first_name": "Anu"}))
	assert.Equal(t, "Unknown", DisplayName(lms.Record{}))
}
