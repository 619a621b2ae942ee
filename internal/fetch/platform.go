package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies the applicant tracking system serving a job posting.
// Known platforms get content selectors tuned to their page structure.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS.
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS.
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS.
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is any unrecognized job board.
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// contentSelectors returns the posting containers to try for a platform,
// most specific first. Unknown platforms use the generic job board list.
func contentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-post-container",
			"#content",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".posting-description",
			".section-wrapper.page-full-width",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return jobPostingSelectors()
	}
}

// noiseSelectors returns elements stripped from a page before text
// extraction. Application forms, EEO boilerplate, and consent banners carry
// no job content.
func noiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".application-form",
		".apply-button-container",
		".voluntary-disclosure",
		".eeo-statement",
		".social-share",
		".cookie-banner",
		".cookie-consent",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common,
			".application--wrapper",
			".post-apply",
		)
	case PlatformLever:
		return append(common,
			".apply-section",
			".posting-apply",
		)
	case PlatformWorkday:
		return append(common,
			"[data-automation-id='applyButton']",
		)
	default:
		return common
	}
}
