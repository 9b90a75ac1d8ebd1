package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// maxRedirects caps redirect chains on source portals. Registry URLs point
// at content pages, which occasionally sit behind long vanity-URL chains.
const maxRedirects = 5

// Client probes external catalog sources. Each probe hits a distinct host
// once per sweep, so the transport keeps the idle pool small and gives up
// quickly on dead hosts instead of holding the sweep deadline.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// DoWithContext sends the request bound to ctx, so a sweep-level deadline
// cancels the in-flight probe as well.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}
