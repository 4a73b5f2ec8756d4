// internal/store/admins.go
package store

import "github.com/tamzrod/fobgate/internal/frame"

// AdminList is the compiled-in privileged tag list. It is immutable
// for the life of the process; enrollment and erase never touch it.
type AdminList []frame.TagID

// DefaultAdmins holds the shop's admin fobs. Edit and rebuild to
// change the privileged set.
var DefaultAdmins = AdminList{
	0x004C8F21,
	0x00B3D65A,
}

// IsAdmin reports whether tag is in the list. Linear scan, same shape
// as the store lookup.
func (a AdminList) IsAdmin(tag frame.TagID) bool {
	for _, t := range a {
		if t == tag {
			return true
		}
	}
	return false
}
