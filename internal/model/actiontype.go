package model

// ActionType is a named, iconified category of care action (e.g. "Water").
// System types ship with the database and cannot be deleted; user-created
// types carry a custom image and can be managed freely.
type ActionType struct {
	Name           string `json:"name"`
	IconName       string `json:"icon_name,omitempty"`
	IconPack       string `json:"icon_pack,omitempty"`
	Color          string `json:"color"`
	UseCustomImage bool   `json:"use_custom_image"`
}
