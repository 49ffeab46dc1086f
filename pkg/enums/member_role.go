package enums

// MemberRole is the role claim carried on the authenticated principal.
type MemberRole string

const (
	RoleCustomer MemberRole = "customer"
	RoleAdmin    MemberRole = "admin"
)

func (r MemberRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	}
	return false
}
