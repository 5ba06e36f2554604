// Package satori implements the collaborator set for Satori-style judge
// portals. There is no API; everything is scraped from rendered pages, with
// the session travelling as a cookie.
package satori

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"contestctl/internal/domain"
	"contestctl/internal/ports"
)

const (
	tokenCookie = "satori_token"
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	submittedAtLayout = "2006-01-02 15:04:05"
)

// Pending is the portal's pending verdict set. "QUE" is what the results
// table shows while a submission waits in the judge queue.
var Pending = domain.NewPendingSet("QUE", "RUN")

type Client struct {
	baseURL *url.URL
	http    *resty.Client
}

var _ ports.Collaborators = (*Client)(nil)

type Options struct {
	BaseURL string
	// Timeout applies per round-trip; the portal can be slow on results
	// pages. Defaults to 30s.
	Timeout time.Duration
}

func NewClient(opts Options) (*Client, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse satori base url: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(timeout)

	return &Client{baseURL: baseURL, http: client}, nil
}

func (c *Client) request(token string) *resty.Request {
	req := c.http.R()
	if token != "" {
		req.SetCookie(&http.Cookie{Name: tokenCookie, Value: token})
	}
	return req
}

func document(res *resty.Response) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return doc, nil
}

func connectionError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrConnection, err)
}
