// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import "fmt"

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
	// Describe returns a one-line human description of the effect.
	Describe() string
}

// DropDatabaseEffect drops a whole database.
type DropDatabaseEffect struct {
	Database string
}

func (e DropDatabaseEffect) EffectType() string { return "drop_database" }
func (e DropDatabaseEffect) Describe() string {
	return fmt.Sprintf("drop database %s", e.Database)
}

// DeleteSettingsEffect deletes settings rows whose column matches Client case-insensitively.
type DeleteSettingsEffect struct {
	Table  string
	Column string
	Client string
}

func (e DeleteSettingsEffect) EffectType() string { return "delete_settings" }
func (e DeleteSettingsEffect) Describe() string {
	return fmt.Sprintf("delete %s rows where lower(%s) = %q", e.Table, e.Column, e.Client)
}

// DeleteRelatedEffect deletes rows of a related table that reference the owner.
type DeleteRelatedEffect struct {
	Table   string
	Column  string
	OwnerID string
}

func (e DeleteRelatedEffect) EffectType() string { return "delete_related" }
func (e DeleteRelatedEffect) Describe() string {
	return fmt.Sprintf("delete %s rows where %s = %s", e.Table, e.Column, e.OwnerID)
}

// DeleteOwnerEffect deletes the owning row itself.
type DeleteOwnerEffect struct {
	Table   string
	OwnerID string
}

func (e DeleteOwnerEffect) EffectType() string { return "delete_owner" }
func (e DeleteOwnerEffect) Describe() string {
	return fmt.Sprintf("delete %s row id = %s", e.Table, e.OwnerID)
}

// RemoveFolderEffect removes a directory inside a container.
type RemoveFolderEffect struct {
	Container string
	Path      string
}

func (e RemoveFolderEffect) EffectType() string { return "remove_folder" }
func (e RemoveFolderEffect) Describe() string {
	return fmt.Sprintf("remove %s:%s", e.Container, e.Path)
}
