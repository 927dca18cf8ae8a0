package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *ReadmegenError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *ReadmegenError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing: "+field).
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *ReadmegenError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Generation errors

func RenderFailed(format string, cause error) *ReadmegenError {
	return Wrap(cause, CategoryRender, SeverityFatal, "document conversion failed").
		WithContext("format", format)
}

func OutputError(operation string, cause error) *ReadmegenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Watch errors

func WatchSetupError(cause error) *ReadmegenError {
	return Wrap(cause, CategoryWatch, SeverityFatal, "file watch setup failed")
}

// Internal errors

func InternalError(message string, cause error) *ReadmegenError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
