package domain

// Descriptor is what a presentation layer needs to render an enum value
type Descriptor struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon"`
	Tone        string `json:"tone"`
}

// Descriptor returns the display descriptor of the role.
// Every value in Roles must have a case here.
func (r Role) Descriptor() Descriptor {
	switch r {
	case RoleOwner:
		return Descriptor{Value: string(r), Label: "Owner", Description: "Full control of the workspace", Icon: "crown", Tone: "yellow"}
	case RoleAdmin:
		return Descriptor{Value: string(r), Label: "Admin", Description: "Can manage team settings and invite members", Icon: "shield", Tone: "blue"}
	case RoleMember:
		return Descriptor{Value: string(r), Label: "Member", Description: "Can view and collaborate on projects", Icon: "user", Tone: "muted"}
	}
	return unknownDescriptor(string(r))
}

// Descriptor returns the display descriptor of the status.
// Every value in Statuses must have a case here.
func (s MemberStatus) Descriptor() Descriptor {
	switch s {
	case StatusActive:
		return Descriptor{Value: string(s), Label: "Active", Icon: "circle-check", Tone: "green"}
	case StatusPending:
		return Descriptor{Value: string(s), Label: "Pending", Icon: "clock", Tone: "orange"}
	}
	return unknownDescriptor(string(s))
}

func unknownDescriptor(value string) Descriptor {
	return Descriptor{Value: value, Label: value, Icon: "help", Tone: "muted"}
}

// RoleDescriptors returns descriptors for all roles in display order
func RoleDescriptors() []Descriptor {
	out := make([]Descriptor, len(Roles))
	for i, r := range Roles {
		out[i] = r.Descriptor()
	}
	return out
}

// StatusDescriptors returns descriptors for all statuses in display order
func StatusDescriptors() []Descriptor {
	out := make([]Descriptor, len(Statuses))
	for i, s := range Statuses {
		out[i] = s.Descriptor()
	}
	return out
}
