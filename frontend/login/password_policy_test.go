package login

import "testing"

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng-Passw0rd!", false},
		{"too short", "Sh0rt-pw!", true},
		{"no upper", "str0ng-passw0rd!", true},
		{"no lower", "STR0NG-PASSW0RD!", true},
		{"no digit", "Strong-Password!", true},
		{"no symbol", "Str0ngPassw0rdA", true},
	}
	for _, tc := range cases {
		err := ValidatePasswordPolicy(tc.password)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}
