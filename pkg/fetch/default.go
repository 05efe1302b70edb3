package fetch

import (
	"net/http"
)

var defaultGetter Getter = NewHTTPGetter(http.DefaultClient)

func DefaultGetter() Getter {
	return defaultGetter
}
