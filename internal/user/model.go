package user

const (
	TypeEmployer  = "employer"
	TypeJobSeeker = "jobSeeker"
)

// ValidType reports whether t is one of the known profile types.
func ValidType(t string) bool {
	return t == TypeEmployer || t == TypeJobSeeker
}

// Profile is the client-side copy of what the API knows about the signed in
// user. It is never validated beyond what the forms check.
type Profile struct {
	IsRegistered bool    `json:"isRegistered"`
	ProfileType  string  `json:"profileType"`
	Details      Details `json:"userDetails"`
}

// Details carries both profile flavours; which fields are meaningful depends
// on the profile type.
type Details struct {
	Username string `json:"username,omitempty"`

	// employer
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`

	// job seeker
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Skills         string `json:"skills,omitempty"`
	WorkExperience string `json:"workExperience,omitempty"`
	ResumeURL      string `json:"resumeUrl,omitempty"`
}

func (p Profile) IsEmployer() bool {
	return p.ProfileType == TypeEmployer
}

func (p Profile) IsJobSeeker() bool {
	return p.ProfileType == TypeJobSeeker
}

// Values returns the editable fields of the profile keyed by form field name.
func (d Details) Values() map[string]string {
	return map[string]string{
		"companyName":    d.CompanyName,
		"address":        d.Address,
		"firstName":      d.FirstName,
		"lastName":       d.LastName,
		"email":          d.Email,
		"phoneNumber":    d.PhoneNumber,
		"skills":         d.Skills,
		"workExperience": d.WorkExperience,
	}
}

func (d Details) FullName() string {
	switch {
	case d.FirstName != "" && d.LastName != "":
		return d.FirstName + " " + d.LastName
	case d.FirstName != "":
		return d.FirstName
	}
	return d.LastName
}
