package validators

// Field names accepted by Validate. They equal the JSON names used on the
// wire, so server-side field errors land on the same keys.
const (
	FieldTitle       = "title"
	FieldType        = "type"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldEmail       = "email"
	FieldURL         = "url"
	FieldNotes       = "notes"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldTags        = "tags"

	// FieldLogin targets the username-or-email field of the login form.
	FieldLogin = "usernameOrEmail"

	FieldConfirmPassword = "confirmPassword"
	FieldFullName        = "fullName"

	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// Length limits of the vault server.
const (
	maxTitle       = 255
	maxSecret      = 255
	maxURL         = 500
	maxNotes       = 2000
	maxDescription = 500
	maxCategory    = 100
	maxTags        = 50

	minLogin    = 3
	maxLogin    = 100
	minPassword = 6
	maxPassword = 100
	minUsername = 3
	maxUsername = 50
	maxFullName = 100

	// A changed password is held to a stricter minimum than at sign-up.
	minNewPassword  = 8
	maxProfileEmail = 100
)
