package domain

// Identity is the signed-in actor. Avatar and Bio are optional.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// IdentityPatch is a partial profile update. Nil fields are left untouched.
type IdentityPatch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// Apply returns id with the non-nil fields of p merged over it.
func (p IdentityPatch) Apply(id Identity) Identity {
	if p.Name != nil {
		id.Name = *p.Name
	}
	if p.Email != nil {
		id.Email = *p.Email
	}
	if p.Avatar != nil {
		id.Avatar = *p.Avatar
	}
	if p.Bio != nil {
		id.Bio = *p.Bio
	}
	return id
}

func (p IdentityPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Avatar == nil && p.Bio == nil
}
