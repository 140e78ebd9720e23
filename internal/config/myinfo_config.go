package config

import "strings"

type MyInfoConfig interface {
	GetMyInfoIssuer() string
	GetMyInfoClientID() string
	GetMyInfoRedirectURL() string
	GetMyInfoPrivateSigKeyPEM() string
	GetMyInfoPrivateEncKeyPEM() string
}

type MyInfo struct{}

var _ MyInfoConfig = MyInfo{}

func (MyInfo) GetMyInfoIssuer() string {
	return GetEnv("MYINFO_HOST", "https://stg-id.singpass.gov.sg")
}

func (MyInfo) GetMyInfoClientID() string {
	return GetEnv("MYINFO_APP_ID", "")
}

func (MyInfo) GetMyInfoRedirectURL() string {
	return GetEnv("MYINFO_APP_REDIRECT_URL", "")
}

// Private keys arrive through the environment as single-line values with
// '|' standing in for newlines, since multi-line env vars are awkward to
// provision. The getters return proper PEM.
func (MyInfo) GetMyInfoPrivateSigKeyPEM() string {
	return pemFromEnv("MYINFO_PRIVATE_SIG_KEY")
}

func (MyInfo) GetMyInfoPrivateEncKeyPEM() string {
	return pemFromEnv("MYINFO_PRIVATE_ENC_KEY")
}

func pemFromEnv(envVar string) string {
	return strings.ReplaceAll(GetEnv(envVar, ""), "|", "\n")
}
