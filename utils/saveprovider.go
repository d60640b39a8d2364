package utils

// ResourceSource is origin of file loaded by handler
type ResourceSource interface {
	Name() string
}
