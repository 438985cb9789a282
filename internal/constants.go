package internal

const (
	UserAgent = "openchessrunner/0.1.0 (+https://github.com/openchessrunner/core)"
)
