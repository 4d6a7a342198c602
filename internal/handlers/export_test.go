package handlers

import "net/http"

// SetProxyClient lets external tests replace the API's internal HTTP client.
func SetProxyClient(a *API, c *http.Client) {
	a.proxyClient = c
}
