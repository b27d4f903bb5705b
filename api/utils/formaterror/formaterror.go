package formaterror

import "strings"

// FormatError turns database and auth errors into field messages.
func FormatError(errString string) map[string]string {
	errorMessages := map[string]string{}

	lower := strings.ToLower(errString)
	switch {
	case strings.Contains(lower, "username"):
		errorMessages["Taken_username"] = "Username Already Taken"
	case strings.Contains(lower, "email"):
		errorMessages["Taken_email"] = "Email Already Taken"
	case strings.Contains(lower, "hashedpassword"):
		errorMessages["Incorrect_password"] = "Incorrect Password"
	case strings.Contains(lower, "record not found"):
		errorMessages["No_record"] = "No Record Found"
	case strings.Contains(lower, "unique"), strings.Contains(lower, "duplicate"):
		errorMessages["Duplicate"] = "Record Already Exists"
	}

	if len(errorMessages) == 0 {
		errorMessages["Incorrect_details"] = "Incorrect Details"
	}
	return errorMessages
}
