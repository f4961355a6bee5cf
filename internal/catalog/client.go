// client.go contains the http plumbing shared by every page of the catalog.

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"coursedesc/internal/assert"
	"coursedesc/internal/components/telemetry"
	"coursedesc/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("coursedesc/catalog")

const DefaultBaseUrl = "https://corsi.unibo.it"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

const (
	report_client_discover_year   = "client.discover-year"
	report_client_parse_structure = "client.parse-structure"
)

type ClientOptions struct {
	// BaseUrl is the root of the catalog, defaults to DefaultBaseUrl.
	BaseUrl string
	Tables  Tables
	// RequestsPerSecond limits the request rate, 0 means unlimited.
	RequestsPerSecond float64
	// Timeout of a single request, 0 leaves it to the transport.
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
	// DumpOutput receives every http exchange when it is not nil.
	DumpOutput restyutil.InstrumentOutput
}

// Client reads the pages of the catalog, it never retries a request.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tables Tables
	tel    telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	err := opts.Tables.Validate()
	if err != nil {
		return nil, err
	}

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	baseUrl = strings.TrimSuffix(baseUrl, "/")
	parsedBaseUrl, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsedBaseUrl.Scheme == "" || parsedBaseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseUrl)
	}

	tel = telemetry.NewScopedAPI("catalog", tel)

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient.SetHeader("user-agent", userAgent)
	// teaching pages live on a different host than the catalog
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	httpClient.SetRetryCount(0)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.DumpOutput)

	return &Client{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		tables:  opts.Tables,
		tel:     tel,
	}, nil
}

// page is a fetched and parsed html page.
type page struct {
	doc *goquery.Document
	// url is the final url of the page after redirects.
	url *url.URL
}

func (c *Client) fetch(ctx context.Context, target string) (page, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return page{}, NetworkError{Url: target, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return page{}, HttpStatusError{Url: target, Status: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return page{}, ParseError{
			Url:    target,
			Reason: ReasonMissingElement,
			What:   "html document",
			Err:    err,
		}
	}

	final, err := url.Parse(target)
	if err != nil {
		return page{}, NetworkError{Url: target, Err: err}
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL
	}

	return page{doc: doc, url: final}, nil
}

// resolve turns an href found on a page into a normalized absolute url.
func resolve(base *url.URL, href string) (string, error) {
	link, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	if base != nil {
		link = base.ResolveReference(link)
	}
	return purell.NormalizeURL(link, purell.FlagsSafe|purell.FlagRemoveFragment), nil
}
