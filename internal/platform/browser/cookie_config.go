package browser

import (
	"os"

	"github.com/tidwall/gjson"
)

// PlatformCookieConfig 平台Cookie检测配置
type PlatformCookieConfig struct {
	RequiredCookies []string // 必需Cookie名称列表（维持登录态）
	ExtendedCookies []string // 扩展Cookie名称列表（操作/风控）
}

// PlatformCookieConfigs 各平台的Cookie配置
var PlatformCookieConfigs = map[string]PlatformCookieConfig{
	"tiktok": {
		RequiredCookies: []string{"sessionid"},
		ExtendedCookies: []string{"_ttp", "tt_chain_token"},
	},
	"youtube": {
		RequiredCookies: []string{"SID", "SAPISID"},
		ExtendedCookies: []string{"HSID", "SSID"},
	},
	"douyin": {
		RequiredCookies: []string{"sessionid"},
		ExtendedCookies: []string{"ttwid", "odin_tt"},
	},
	"kuaishou": {
		RequiredCookies: []string{"kuaishou.web.cp.api_ph", "kuaishou.web.cp.api_st"},
		ExtendedCookies: []string{"did"},
	},
	"xiaohongshu": {
		RequiredCookies: []string{"web_session", "a1"},
		ExtendedCookies: []string{"webId", "websectiga"},
	},
}

// GetCookieConfig 获取指定平台的Cookie配置
func GetCookieConfig(platform string) (PlatformCookieConfig, bool) {
	config, ok := PlatformCookieConfigs[platform]
	return config, ok
}

// ProbeSessionFile 在启动浏览器之前探测会话文件是否包含平台必需的Cookie。
// 文件缺失、非JSON或缺少任一必需Cookie都视为未登录，直接快速失败。
func ProbeSessionFile(path, platform string) bool {
	config, ok := GetCookieConfig(platform)
	if !ok || len(config.RequiredCookies) == 0 {
		// 未配置Cookie要求的平台交给页面内标记元素检查
		_, err := os.Stat(path)
		return err == nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	names := gjson.GetBytes(data, "cookies.#.name")
	if !names.Exists() {
		return false
	}

	present := make(map[string]bool)
	names.ForEach(func(_, value gjson.Result) bool {
		present[value.String()] = true
		return true
	})

	for _, required := range config.RequiredCookies {
		if !present[required] {
			return false
		}
	}
	return true
}
