package utils

import (
	"net"
	"strings"
)

// IsPublicIP 判断IP是否为可解析归属地的公网地址
// 空串、非法IP、回环地址和内网地址都返回false
func IsPublicIP(ip string) bool {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return false
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast() {
		return false
	}

	return true
}
