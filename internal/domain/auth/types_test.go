package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleCustomer, ParseRole("USER"))
	assert.Equal(t, RoleCustomer, ParseRole(" customer "))
	assert.Equal(t, Role("AUDITOR"), ParseRole("auditor"))
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleCustomer.IsAdmin())
}

func TestIdentity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Identity
	}{
		{
			name: "customerId key",
			in:   `{"customerId":12,"name":"Asha","email":"a@x.io","role":"USER","dob":"1990-04-02"}`,
			want: Identity{ID: 12, Name: "Asha", Email: "a@x.io", Role: RoleCustomer, DOB: "1990-04-02"},
		},
		{
			name: "id key",
			in:   `{"id":7,"role":"ADMIN"}`,
			want: Identity{ID: 7, Role: RoleAdmin},
		},
		{
			name: "string id and array dob",
			in:   `{"customerId":"42","role":"CUSTOMER","dob":[2001,3,9]}`,
			want: Identity{ID: 42, Role: RoleCustomer, DOB: "2001-03-09"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Identity
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity_UnmarshalJSON_BadID(t *testing.T) {
	var got Identity
	assert.Error(t, json.Unmarshal([]byte(`{"id":"seven"}`), &got))
}

func TestIdentityPatch_Merge(t *testing.T) {
	name := "New Name"
	addr := ""
	id := Identity{ID: 3, Name: "Old", Address: "Street 1", Role: RoleCustomer}

	got := IdentityPatch{Name: &name, Address: &addr}.Merge(id)

	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "", got.Address)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "Old", id.Name, "merge must not mutate the input")
	assert.True(t, IdentityPatch{}.IsEmpty())
}

func TestSession_Helpers(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	s := Session{Identity: &Identity{ID: 1, Role: RoleAdmin}}
	assert.True(t, s.Authenticated())
	assert.True(t, s.HasRole(RoleAdmin))
	assert.False(t, s.HasRole(RoleCustomer))
}
