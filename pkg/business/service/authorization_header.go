package service

import (
	"encoding/base64"
	"net/http"
)

type AuthEngine interface {
	GetApiKey() string
	SetApiKey(request *http.Request)
}

// BasicAuth - логин/пароль Breez, consumer key/secret WooCommerce,
// application password WordPress: все ходят через Basic.
type BasicAuth struct {
	user     string
	password string
}

func NewBasicAuth(user, password string) *BasicAuth {
	if user == "" {
		return nil
	}
	return &BasicAuth{user: user, password: password}
}

func (b *BasicAuth) GetApiKey() string {
	return base64.StdEncoding.EncodeToString([]byte(b.user + ":" + b.password))
}

func (b *BasicAuth) SetApiKey(request *http.Request) {
	request.SetBasicAuth(b.user, b.password)
}
