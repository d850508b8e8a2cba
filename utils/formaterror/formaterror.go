package formaterror

import "strings"

// FormatError maps raw database error text onto the field-keyed error
// messages the handlers return.
func FormatError(errString string) map[string]string {
	errorMessages := make(map[string]string)
	if strings.Contains(errString, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(errString, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(errString, "slug") {
		errorMessages["Taken_slug"] = "Slug Already Taken"
	}
	if strings.Contains(errString, "hashedPassword") || strings.Contains(errString, "crypto/bcrypt") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if strings.Contains(errString, "record not found") {
		errorMessages["No_record"] = "No Record Found"
	}
	if len(errorMessages) > 0 {
		return errorMessages
	}
	return map[string]string{"Incorrect_details": "Incorrect Details"}
}
