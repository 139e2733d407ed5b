package entities

const (
	// AppName is the binary name, also used as the HTTP user agent product.
	AppName = "bitbucket-autopr"
	// AppVersion is reported by --version and in the HTTP user agent.
	AppVersion = "0.1.0"
)
