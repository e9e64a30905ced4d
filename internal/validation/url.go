// Package validation checks user input before it reaches the API client.
//
// Base URLs may point at loopback hosts so a local mock or proxy can stand
// in for the API, but cloud metadata endpoints and link-local addresses are
// always rejected.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// MaxURLLength is the longest base URL accepted.
const MaxURLLength = 2048

var metadataHosts = []string{
	"169.254.169.254",          // AWS, Azure, GCP, DigitalOcean
	"metadata.google.internal", // GCP
	"metadata",
	"instance-data", // AWS
	"fd00:ec2::254", // AWS IPv6
}

// ValidateBaseURL checks an API base URL override. It must be absolute
// http(s), carry a host and no credentials, query or fragment.
func ValidateBaseURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.User != nil {
		return fmt.Errorf("credentials belong in --username and --password, not the URL")
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("query strings and fragments are not allowed")
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if isCloudMetadata(hostname) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return validateIPAddress(ip)
	}
	return nil
}

func isCloudMetadata(hostname string) bool {
	lowercase := strings.ToLower(strings.TrimSuffix(hostname, "."))
	for _, endpoint := range metadataHosts {
		if lowercase == endpoint {
			return true
		}
	}
	return strings.HasSuffix(lowercase, ".metadata.google.internal")
}

func validateIPAddress(ip net.IP) error {
	if ip.IsUnspecified() {
		return fmt.Errorf("unspecified IP addresses are not allowed")
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return fmt.Errorf("link-local IP addresses are not allowed")
	}
	if ip.IsMulticast() {
		return fmt.Errorf("multicast IP addresses are not allowed")
	}
	return nil
}
