// Package permission is a static lookup table of Android platform
// permission identifiers to their human-readable descriptions. No other
// package in the module consults it; reports carry no permission
// annotations.
package permission

// Info describes one platform permission.
type Info struct {
	ID          string
	Label       string
	Description string
	Dangerous   bool
}

var data = map[string]Info{
	"android.permission.SEND_SMS": {
		ID:          "android.permission.SEND_SMS",
		Label:       "Send SMS",
		Description: "Allows an application to send SMS messages.",
		Dangerous:   true,
	},
	"android.permission.RECEIVE_SMS": {
		ID:          "android.permission.RECEIVE_SMS",
		Label:       "Receive SMS",
		Description: "Allows an application to receive SMS messages.",
		Dangerous:   true,
	},
	"android.permission.READ_SMS": {
		ID:          "android.permission.READ_SMS",
		Label:       "Read SMS or MMS",
		Description: "Allows an application to read SMS messages.",
		Dangerous:   true,
	},
	"android.permission.ACCESS_FINE_LOCATION": {
		ID:          "android.permission.ACCESS_FINE_LOCATION",
		Label:       "Precise location",
		Description: "Allows an application to access precise location from location providers.",
		Dangerous:   true,
	},
	"android.permission.ACCESS_COARSE_LOCATION": {
		ID:          "android.permission.ACCESS_COARSE_LOCATION",
		Label:       "Approximate location",
		Description: "Allows an application to access approximate location derived from network sources.",
		Dangerous:   true,
	},
	"android.permission.READ_CONTACTS": {
		ID:          "android.permission.READ_CONTACTS",
		Label:       "Read contacts",
		Description: "Allows an application to read the user's contacts data.",
		Dangerous:   true,
	},
	"android.permission.WRITE_CONTACTS": {
		ID:          "android.permission.WRITE_CONTACTS",
		Label:       "Write contacts",
		Description: "Allows an application to write the user's contacts data.",
		Dangerous:   true,
	},
	"android.permission.RECORD_AUDIO": {
		ID:          "android.permission.RECORD_AUDIO",
		Label:       "Record audio",
		Description: "Allows an application to record audio.",
		Dangerous:   true,
	},
	"android.permission.CAMERA": {
		ID:          "android.permission.CAMERA",
		Label:       "Camera",
		Description: "Required to access the camera device.",
		Dangerous:   true,
	},
	"android.permission.READ_PHONE_STATE": {
		ID:          "android.permission.READ_PHONE_STATE",
		Label:       "Read phone state",
		Description: "Allows read-only access to phone state, including the IMEI and current cellular network.",
		Dangerous:   true,
	},
	"android.permission.CALL_PHONE": {
		ID:          "android.permission.CALL_PHONE",
		Label:       "Call phone",
		Description: "Allows an application to initiate a phone call without going through the Dialer UI.",
		Dangerous:   true,
	},
	"android.permission.WRITE_EXTERNAL_STORAGE": {
		ID:          "android.permission.WRITE_EXTERNAL_STORAGE",
		Label:       "Write external storage",
		Description: "Allows an application to write to external storage.",
		Dangerous:   true,
	},
	"android.permission.READ_EXTERNAL_STORAGE": {
		ID:          "android.permission.READ_EXTERNAL_STORAGE",
		Label:       "Read external storage",
		Description: "Allows an application to read from external storage.",
		Dangerous:   true,
	},
	"android.permission.SYSTEM_ALERT_WINDOW": {
		ID:          "android.permission.SYSTEM_ALERT_WINDOW",
		Label:       "Draw over other apps",
		Description: "Allows an application to create windows shown on top of all other applications.",
		Dangerous:   true,
	},
	"android.permission.REQUEST_INSTALL_PACKAGES": {
		ID:          "android.permission.REQUEST_INSTALL_PACKAGES",
		Label:       "Request install packages",
		Description: "Allows an application to request installation of other packages.",
		Dangerous:   true,
	},
	"android.permission.INTERNET": {
		ID:          "android.permission.INTERNET",
		Label:       "Full network access",
		Description: "Allows an application to create network sockets.",
		Dangerous:   false,
	},
}

// Get returns the descriptive record for a permission identifier. When the
// identifier is not in the table, Get returns a record whose ID and Label
// are both the identifier, so callers never need a second presence check
// before rendering.
func Get(id string) Info {
	if info, ok := data[id]; ok {
		return info
	}
	return Info{ID: id, Label: id}
}

// IsDangerous reports whether id is a known dangerous-protection-level
// permission. Unknown identifiers are conservatively reported as not
// dangerous rather than guessed at.
func IsDangerous(id string) bool {
	return data[id].Dangerous
}
