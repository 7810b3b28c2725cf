// Package model defines the core data structures shared between the UI
// side and the host: keys, events, frames and window geometry.
package model

import "strings"

// Separators used in synchronized list values and in the outbound event batch.
const (
	ListSeparator       = "|"
	EventListSeparator1 = "@" // joins fields of one event
	EventListSeparator2 = "$" // joins events
)

// Reserved keys. They travel through the same diff mechanism as any other key.
const (
	KeySystemUIVisible = "System.UIVisible"
	KeySystemUIScale   = "System.UIScale"

	KeySystemErrorCritical = "System.Error.Critical"
	KeySystemErrorWarning  = "System.Error.Warning"

	// Keys the host must not rewrite, for example window keys stored to ini.
	KeySystemKeysCppCantChange = "System.KeysCppCantChange"

	// Keys the host must push every frame.
	KeySystemKeysSentEachFrame = "System.KeysSentEachFrame"
)

// Attribute names appended to an item path to form a key.
const (
	AttrEnabled  = "Enabled"
	AttrChecked  = "Checked"
	AttrContent  = "Content"
	AttrTooltip  = "Tooltip"
	AttrVisible  = "Visible"
	AttrSetFocus = "SetFocus"

	AttrPosX                 = "PosX"
	AttrPosY                 = "PosY"
	AttrWidth                = "Width"
	AttrHeight               = "Height"
	AttrZClass               = "ZClass"
	AttrMinimized            = "Minimized"
	AttrOpacity              = "Opacity"
	AttrBackgroundUseTexture = "BackgroundUseTexture"
	AttrBackgroundTintColor  = "BackgroundTintColor"
	AttrLocked               = "Locked"
	AttrMovement             = "Movement" // one-shot: Center, Left, Right, Top, Bottom
	AttrIniState             = "IniState"

	AttrText  = "Text"
	AttrTitle = "Title"
	AttrValue = "Value"
	AttrMax   = "Max"
	AttrMin   = "Min"

	AttrQuantity = "Quantity"
	AttrSelected = "Selected"
	AttrIndex    = "Index"
)

// Key joins path segments into a key, e.g. Key("InvSlot1", "Quantity").
// Empty segments are skipped.
func Key(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// SplitList splits a ListSeparator-joined value. An empty value yields nil.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ListSeparator)
}

// IsReservedKey reports whether key is part of the wire contract rather than
// application data.
func IsReservedKey(key string) bool {
	switch key {
	case KeySystemErrorCritical, KeySystemErrorWarning,
		KeySystemKeysCppCantChange, KeySystemKeysSentEachFrame:
		return true
	}
	return false
}
