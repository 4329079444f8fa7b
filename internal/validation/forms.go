package validation

// One form struct per account workflow entry point. The `form` tags match the
// field names the profile page submits; error maps key off the same names.

type ProfileForm struct {
	ID    int64  `form:"id" validate:"required,gt=0"`
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
}

type PasswordForm struct {
	ID       int64  `form:"id" validate:"required,gt=0"`
	Current  string `form:"current" validate:"required"`
	Password string `form:"password" validate:"required,min=8,complexity"`
	Confirm  string `form:"confirm" validate:"required"`
}

type MFAForm struct {
	ID     int64  `form:"id" validate:"required,gt=0"`
	Secret string `form:"secret" validate:"required"`
	// Password carries the one-time code the user read off their device.
	Password string `form:"password" validate:"required"`
}

type DeleteMFAForm struct {
	ID       int64  `form:"id" validate:"required,gt=0"`
	Password string `form:"password" validate:"required"`
}

type DeleteAccountForm struct {
	UserID   int64  `form:"userId" validate:"required,gt=0"`
	Password string `form:"password" validate:"required"`
}

type BackupForm struct {
	UserID int64 `form:"userId" validate:"required,gt=0"`
}
