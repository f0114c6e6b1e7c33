package services

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	openPath        = "/api/tracking/open"
	clickPath       = "/api/tracking/click"
	unsubscribePath = "/api/subscribers/unsubscribe"
)

var anchorPattern = regexp.MustCompile(`(?is)<a\s+(?:[^>]*?\s+)?href=["']([^"']*)["'][^>]*>.*?</a>`)

// LinkBuilder builds the tracking and unsubscribe URLs embedded in mail.
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder creates a LinkBuilder rooted at the public API base URL.
func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// OpenPixelURL is the open-tracking beacon for a campaign and subscriber.
func (b *LinkBuilder) OpenPixelURL(campaignID, subscriberID string) string {
	q := url.Values{"cid": {campaignID}, "sid": {subscriberID}}
	return b.baseURL + openPath + "?" + q.Encode()
}

// ClickURL routes target through the click-tracking redirect.
func (b *LinkBuilder) ClickURL(campaignID, subscriberID, target string) string {
	q := url.Values{"cid": {campaignID}, "sid": {subscriberID}, "url": {target}}
	return b.baseURL + clickPath + "?" + q.Encode()
}

// UnsubscribeURL is the self-service unsubscribe link. The subscriber id is
// the token; campaignID, when set, attributes the unsubscribe.
func (b *LinkBuilder) UnsubscribeURL(email, subscriberID, campaignID string) string {
	q := url.Values{"email": {email}, "token": {subscriberID}}
	if campaignID != "" {
		q.Set("cid", campaignID)
	}
	return b.baseURL + unsubscribePath + "?" + q.Encode()
}

// PixelTag is the 1x1 image appended to every HTML body.
func (b *LinkBuilder) PixelTag(campaignID, subscriberID string) string {
	return `<img src="` + b.OpenPixelURL(campaignID, subscriberID) +
		`" width="1" height="1" alt="" style="display:none" />`
}

// RewriteLinks points every absolute http(s) anchor in body at the click
// redirect. mailto links, relative links and links that already go through
// the click endpoint are kept.
func (b *LinkBuilder) RewriteLinks(body, campaignID, subscriberID string) string {
	return anchorPattern.ReplaceAllStringFunc(body, func(anchor string) string {
		loc := anchorPattern.FindStringSubmatchIndex(anchor)
		if loc == nil || loc[2] < 0 {
			return anchor
		}
		href := anchor[loc[2]:loc[3]]
		if !trackable(href) {
			return anchor
		}
		return anchor[:loc[2]] + b.ClickURL(campaignID, subscriberID, href) + anchor[loc[3]:]
	})
}

func trackable(href string) bool {
	return !strings.Contains(href, clickPath) && validRedirect(href)
}
