package entity

// UserUpdates stages partial updates for a user record.
type UserUpdates struct {
	Name                 *string
	Email                *string
	PasswordHash         *string
	Role                 *Role
	IsActive             *bool
	AllowedCategorySlugs *StringArray
}

// ToMap converts the staged fields into a GORM updates map.
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.AllowedCategorySlugs != nil {
		updates["allowed_category_slugs"] = *u.AllowedCategorySlugs
	}
	return updates
}

// IsEmpty reports whether no field is staged.
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CategoryUpdates stages partial updates for a category record.
type CategoryUpdates struct {
	Name         *string
	Slug         *string
	Description  *string
	IsActive     *bool
	AllowedRoles *StringArray
}

// ToMap converts the staged fields into a GORM updates map.
func (u CategoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Slug != nil {
		updates["slug"] = *u.Slug
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.AllowedRoles != nil {
		updates["allowed_roles"] = *u.AllowedRoles
	}
	return updates
}

// IsEmpty reports whether no field is staged.
func (u CategoryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
