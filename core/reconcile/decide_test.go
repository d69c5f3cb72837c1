package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		local     Local
		rec       Record
		want      Action
		wantEmail bool
	}{
		{
			name: "Missing Local Creates",
			rec:  Record{ExternalID: "abc123", Phone: "9988776655"},
			want: ActionCreate,
		},
		{
			name:  "Unlinked Local Links",
			local: Local{Found: true, ID: 7},
			rec:   Record{ExternalID: "abc123", Phone: "+919988776655"},
			want:  ActionLink,
		},
		{
			name:      "Link Also Sets Changed Email",
			local:     Local{Found: true, ExternalID: "old", Email: "a@x.io"},
			rec:       Record{ExternalID: "new", Email: "b@x.io"},
			want:      ActionLink,
			wantEmail: true,
		},
		{
			name:      "Same Id New Email Updates",
			local:     Local{Found: true, ExternalID: "abc", Email: "a@x.io"},
			rec:       Record{ExternalID: "abc", Email: "b@x.io"},
			want:      ActionUpdate,
			wantEmail: true,
		},
		{
			name:  "Same Id Empty Email Is Unchanged",
			local: Local{Found: true, ExternalID: "abc", Email: "a@x.io"},
			rec:   Record{ExternalID: "abc"},
			want:  ActionNone,
		},
		{
			name:  "Missing Remote Id Never Links",
			local: Local{Found: true, ExternalID: "abc"},
			rec:   Record{},
			want:  ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.local, tt.rec)
			assert.Equal(t, tt.want, d.Action)
			assert.Equal(t, tt.wantEmail, d.SetEmail)
			assert.Equal(t, tt.rec, d.Record)
		})
	}
}
