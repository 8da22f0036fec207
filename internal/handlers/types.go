package handlers

// CreateLinkBody carries the fields of a short link creation request.
type CreateLinkBody struct {
	Email              string `doc:"Owner email, receives the verification link" example:"owner@example.com"     json:"email"`
	IOSDeepLink        string `doc:"iOS deep link"                               example:"myapp://product/42"    json:"iosDeepLink,omitempty"`
	IOSFallbackURL     string `doc:"iOS fallback URL"                            example:"https://example.com/i" json:"iosFallbackUrl,omitempty"`
	AndroidDeepLink    string `doc:"Android deep link"                           example:"myapp://product/42"    json:"androidDeepLink,omitempty"`
	AndroidFallbackURL string `doc:"Android fallback URL"                        example:"https://example.com/a" json:"androidFallbackUrl,omitempty"`
	DefaultFallbackURL string `doc:"Default fallback URL, required"              example:"https://example.com"   json:"defaultFallbackUrl"`
	WebhookURL         string `doc:"Optional webhook notified on resolution"     example:"https://example.com/h" json:"webhookUrl,omitempty"`
	HeadHTML           string `doc:"Optional head markup for the redirect page"  example:"<title>Hi</title>"     json:"headHtml,omitempty"`
}

// CreateLinkRequest is the request for creating a short link.
type CreateLinkRequest struct {
	Body CreateLinkBody
}

// CreateLinkResponse reports whether a new pending record was created.
// False means an identical pending link already existed and its
// verification mail was re-sent.
type CreateLinkResponse struct {
	Body struct {
		IsCreated bool `doc:"Whether a new pending record was created" json:"is_created"`
	}
}

// ResolveRequest is the request for resolving a short key.
type ResolveRequest struct {
	ShortKey string `doc:"The short key" example:"WXaYZ" path:"shortKey"`
}

// ResolveResponse is either a legacy redirect (302 + Location) or the
// rendered redirect page (200 + HTML body).
type ResolveResponse struct {
	Status      int
	Location    string `header:"Location"`
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// VerifyRequest is the request for confirming an email verification code.
type VerifyRequest struct {
	Code string `doc:"One-time verification code" example:"x7Gh2kLp" path:"code"`
}

// HTMLResponse is a plain HTML page response.
type HTMLResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}
