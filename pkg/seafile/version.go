package seafile

import (
	"strings"

	"golang.org/x/mod/semver"
)

// MinVersionGroupMembers is the first server release with the v2.1 group member endpoints.
const MinVersionGroupMembers = "5.1.0"

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// CompareVersions compares two seafile versions such as "6.3.4".
// Unparseable versions sort before every valid one.
// 比较两个 seafile 版本号, 无法解析的版本号小于所有合法版本号.
func CompareVersions(a, b string) int {
	return semver.Compare(canonicalVersion(a), canonicalVersion(b))
}

// SupportedWithServerVersion reports whether a server of version server can run an
// operation requiring min. An empty min is always supported.
// 判断指定版本的服务器是否支持需要 min 版本的操作.
func SupportedWithServerVersion(server, min string) bool {
	if min == "" {
		return true
	}
	if !semver.IsValid(canonicalVersion(server)) {
		return false
	}
	return CompareVersions(server, min) >= 0
}
