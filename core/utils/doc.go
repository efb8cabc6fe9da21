// Package utils provides common utility functions for class-sync.
// It includes helpers for number formatting and string trimming that are
// shared by the classifier, the content resolver and the reconcile engine.
package utils
