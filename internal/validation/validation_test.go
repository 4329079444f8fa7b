package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFormValid(t *testing.T) {
	errs := Check(ProfileForm{ID: 1, Name: "John Doe", Email: "john@example.com"})
	assert.Nil(t, errs)
}

func TestProfileFormFieldErrors(t *testing.T) {
	errs := Check(ProfileForm{ID: 0, Name: "", Email: "not-an-email"})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "id")
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Equal(t, []string{"Invalid email address."}, errs["email"])
}

func TestPasswordFormComplexity(t *testing.T) {
	base := PasswordForm{ID: 1, Current: "oldpassword1", Confirm: "x"}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"letters and digits", "goodpass1", false},
		{"too short", "abc1", true},
		{"digits only", "12345678", true},
		{"letters only", "abcdefgh", true},
		{"missing entirely", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := base
			form.Password = tt.password
			if form.Confirm == "x" {
				form.Confirm = tt.password
			}
			errs := Check(form)
			if tt.wantErr {
				require.NotNil(t, errs)
				assert.Contains(t, errs, "password")
			} else {
				assert.Nil(t, errs)
			}
		})
	}
}

func TestConfirmIsNotCheckedAgainstPasswordHere(t *testing.T) {
	// Matching new/confirm is a workflow concern, not a schema one.
	errs := Check(PasswordForm{ID: 1, Current: "old", Password: "goodpass1", Confirm: "otherpass2"})
	assert.Nil(t, errs)
}

func TestMFAFormRequiredFields(t *testing.T) {
	errs := Check(MFAForm{ID: 1})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "secret")
	assert.Contains(t, errs, "password")
}

func TestDeleteAccountFormUsesUserIDKey(t *testing.T) {
	errs := Check(DeleteAccountForm{UserID: 0, Password: ""})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "userId")
	assert.Contains(t, errs, "password")
}

func TestBackupFormRejectsNonPositiveID(t *testing.T) {
	assert.NotNil(t, Check(BackupForm{UserID: 0}))
	assert.NotNil(t, Check(BackupForm{UserID: -3}))
	assert.Nil(t, Check(BackupForm{UserID: 7}))
}
