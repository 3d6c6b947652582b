package platform

import (
	"time"

	"Bpublisher/internal/platform/driver"
)

// 各平台描述：选择器属于页面结构数据，会随平台改版调整，
// 状态机逻辑不随之变化。

func init() {
	Register(youtubeDescriptor())
	Register(tiktokDescriptor())
	Register(douyinDescriptor())
	Register(kuaishouDescriptor())
	Register(xiaohongshuDescriptor())
}

func youtubeDescriptor() *Descriptor {
	return &Descriptor{
		Name:            "youtube",
		UploadURL:       "https://www.youtube.com",
		LoginURL:        "https://accounts.google.com/ServiceLogin?service=youtube",
		LoggedInMarker:  `button#avatar-btn`,
		LoggedOutMarker: `a[href*="accounts.google.com/ServiceLogin"]`,
		OpenDialog: []StepSpec{
			{
				Selectors: []string{
					`button[aria-label="创建"]`,
					`button[aria-label="Create"]`,
				},
				Timeout: 15 * time.Second,
				Settle:  time.Second,
			},
			{
				Selectors: []string{`a[href="/upload"]`, `text=上传视频`},
				Timeout:   5 * time.Second,
				Settle:    time.Second,
			},
		},
		FileInput: StepSpec{
			Selectors: []string{
				`ytcp-uploads-file-picker input[type="file"][name="Filedata"]`,
				`input[type="file"][name="Filedata"]`,
			},
			State:   driver.StateAttached,
			Timeout: 20 * time.Second,
			Settle:  3 * time.Second,
		},
		TitleInput: StepSpec{
			Selectors: []string{
				`textarea#textbox[aria-label="添加标题"]`,
				`ytcp-social-suggestions-textbox[label="标题"] #textbox`,
			},
			Timeout: 20 * time.Second,
			Settle:  time.Second,
		},
		DescriptionInput: StepSpec{
			Selectors: []string{
				`textarea#textbox[aria-label="添加说明"]`,
				`ytcp-social-suggestions-textbox[label="说明"] #textbox`,
			},
			Settle: time.Second,
		},
		NextButton: StepSpec{
			Selectors: []string{
				`ytcp-button#next-button`,
				`button:has-text("下一步")`,
			},
			Timeout: 10 * time.Second,
			Settle:  1500 * time.Millisecond,
		},
		NextClicks: 3,
		PublicOption: StepSpec{
			Selectors: []string{`tp-yt-paper-radio-button[name="PUBLIC"]`},
			Timeout:   15 * time.Second,
			Settle:    time.Second,
		},
		RestrictedOption: StepSpec{
			Selectors: []string{`tp-yt-paper-radio-button[name="UNLISTED"]`},
			Timeout:   15 * time.Second,
			Settle:    time.Second,
		},
		ScheduleToggle: StepSpec{
			Selectors: []string{`ytcp-icon-button[aria-label="展开"]`, `#second-container-expand-button`},
			Settle:    time.Second,
		},
		ScheduleInput: StepSpec{
			Selectors: []string{`tp-yt-paper-input#datepicker-trigger input`},
			Settle:    time.Second,
		},
		PublishButton: StepSpec{
			Selectors: []string{
				`ytcp-button-shape button[aria-label="发布"]`,
				`ytcp-button-shape button[aria-label="Publish"]`,
				`button:has-text("发布")`,
			},
			Timeout: 15 * time.Second,
			Settle:  3 * time.Second,
		},
		SuccessMarker: StepSpec{
			Selectors: []string{`text=/公开视频已发布|Video published/`},
			Timeout:   30 * time.Second,
		},
	}
}

func tiktokDescriptor() *Descriptor {
	return &Descriptor{
		Name:            "tiktok",
		UploadURL:       "https://www.tiktok.com/tiktokstudio/upload",
		LoginURL:        "https://www.tiktok.com/login?lang=en",
		LoggedInMarker:  `[data-e2e="nav-more-menu"]`,
		LoggedOutMarker: `button:has-text("Log in")`,
		FileInput: StepSpec{
			Selectors: []string{
				`input[type="file"]`,
				`input[accept*="video"]`,
			},
			State:   driver.StateAttached,
			Timeout: 20 * time.Second,
			Settle:  3 * time.Second,
		},
		TitleInput: StepSpec{
			Selectors: []string{
				`div.public-DraftEditor-content`,
				`div[contenteditable="true"]`,
			},
			Timeout: 15 * time.Second,
			Settle:  500 * time.Millisecond,
		},
		PublicOption: StepSpec{
			Selectors: []string{`div.tiktok-select input[value="0"]`, `text=Everyone`},
			Settle:    500 * time.Millisecond,
		},
		RestrictedOption: StepSpec{
			Selectors: []string{`div.tiktok-select input[value="1"]`, `text=Only you`},
			Settle:    500 * time.Millisecond,
		},
		ScheduleToggle: StepSpec{
			Selectors: []string{`[aria-label="Schedule"]`, `button:has-text("Schedule")`},
			Settle:    time.Second,
		},
		ScheduleInput: StepSpec{
			Selectors: []string{`div.scheduled-picker div.TUXInputBox input`},
			Settle:    500 * time.Millisecond,
		},
		PublishButton: StepSpec{
			Selectors: []string{
				`div.btn-post > button`,
				`div.button-group > button >> text=Post`,
			},
			Timeout: 2 * time.Minute,
			Settle:  3 * time.Second,
		},
		SuccessMarker: StepSpec{
			Selectors: []string{`text=/发布成功|提交成功|Published|Success/`},
			Timeout:   30 * time.Second,
		},
	}
}

func douyinDescriptor() *Descriptor {
	return &Descriptor{
		Name:            "douyin",
		UploadURL:       "https://creator.douyin.com/creator-micro/content/upload",
		LoginURL:        "https://creator.douyin.com/",
		LoggedInMarker:  `div.avatar--1lkkg`,
		LoggedOutMarker: `text=手机号登录`,
		FileInput: StepSpec{
			Selectors: []string{`div[class^="container"] input[type="file"]`, `input[type="file"]`},
			State:     driver.StateAttached,
			Timeout:   20 * time.Second,
			Settle:    3 * time.Second,
		},
		TitleInput: StepSpec{
			Selectors: []string{
				`input[placeholder="填写作品标题，为作品获得更多流量"]`,
				`div.notranslate`,
			},
			Timeout: 15 * time.Second,
			Settle:  time.Second,
		},
		ThumbnailInput: StepSpec{
			Selectors: []string{`div[class^="semi-upload"] input[type="file"]`},
			State:     driver.StateAttached,
			Settle:    2 * time.Second,
		},
		ProductLink: StepSpec{
			Selectors: []string{`input[placeholder*="商品链接"]`},
			Settle:    time.Second,
		},
		ProductTitle: StepSpec{
			Selectors: []string{`input[placeholder*="商品短标题"]`},
			Settle:    time.Second,
		},
		PublicOption: StepSpec{
			Selectors: []string{`label:has-text("公开")`},
			Settle:    500 * time.Millisecond,
		},
		RestrictedOption: StepSpec{
			Selectors: []string{`label:has-text("仅自己可见")`},
			Settle:    500 * time.Millisecond,
		},
		ScheduleToggle: StepSpec{
			Selectors: []string{`label:has-text("定时发布")`},
			Settle:    time.Second,
		},
		ScheduleInput: StepSpec{
			Selectors: []string{`.semi-input[placeholder="日期和时间"]`},
			Settle:    time.Second,
		},
		PublishButton: StepSpec{
			Selectors: []string{`button:has-text("发布"):visible`},
			Timeout:   2 * time.Minute,
			Settle:    3 * time.Second,
		},
		SuccessMarker: StepSpec{
			Selectors: []string{`text=/发布成功|已发布/`},
			Timeout:   30 * time.Second,
		},
	}
}

func kuaishouDescriptor() *Descriptor {
	return &Descriptor{
		Name:            "kuaishou",
		UploadURL:       "https://cp.kuaishou.com/article/publish/video",
		LoginURL:        "https://cp.kuaishou.com/",
		LoggedInMarker:  `div.user-info`,
		LoggedOutMarker: `text=立即登录`,
		FileInput: StepSpec{
			Selectors: []string{`input[type="file"]`},
			State:     driver.StateAttached,
			Timeout:   20 * time.Second,
			Settle:    3 * time.Second,
		},
		TitleInput: StepSpec{
			Selectors: []string{
				`div#work-description-edit`,
				`div[contenteditable="true"]`,
			},
			Timeout: 15 * time.Second,
			Settle:  time.Second,
		},
		PublicOption: StepSpec{
			Selectors: []string{`label:has-text("公开")`},
			Settle:    500 * time.Millisecond,
		},
		RestrictedOption: StepSpec{
			Selectors: []string{`label:has-text("仅自己可见")`},
			Settle:    500 * time.Millisecond,
		},
		ScheduleToggle: StepSpec{
			Selectors: []string{`label:has-text("定时发布")`},
			Settle:    time.Second,
		},
		ScheduleInput: StepSpec{
			Selectors: []string{`div.ant-picker input`},
			Settle:    time.Second,
		},
		PublishButton: StepSpec{
			Selectors: []string{`div[class^="footer"] button:has-text("发布")`, `button:has-text("发布")`},
			Timeout:   2 * time.Minute,
			Settle:    3 * time.Second,
		},
		SuccessMarker: StepSpec{
			Selectors: []string{`text=发布成功`},
			Timeout:   30 * time.Second,
		},
	}
}

func xiaohongshuDescriptor() *Descriptor {
	return &Descriptor{
		Name:            "xiaohongshu",
		UploadURL:       "https://creator.xiaohongshu.com/publish/publish?source=official",
		LoginURL:        "https://creator.xiaohongshu.com/login",
		LoggedInMarker:  `div.user-avatar`,
		LoggedOutMarker: `text=扫码登录`,
		OpenDialog: []StepSpec{
			{
				Selectors: []string{`div.creator-tab:has-text("上传视频")`},
				Timeout:   15 * time.Second,
				Settle:    time.Second,
			},
		},
		FileInput: StepSpec{
			Selectors: []string{`input[type="file"]`},
			State:     driver.StateAttached,
			Timeout:   20 * time.Second,
			Settle:    3 * time.Second,
		},
		TitleInput: StepSpec{
			Selectors: []string{
				`input[placeholder*="填写标题"]`,
				`div.titleInput input`,
			},
			Timeout: 15 * time.Second,
			Settle:  time.Second,
		},
		DescriptionInput: StepSpec{
			Selectors: []string{`div.ql-editor`, `div[contenteditable="true"]`},
			Settle:    time.Second,
		},
		PublicOption: StepSpec{
			Selectors: []string{`label:has-text("公开可见")`},
			Settle:    500 * time.Millisecond,
		},
		RestrictedOption: StepSpec{
			Selectors: []string{`label:has-text("仅自己可见")`},
			Settle:    500 * time.Millisecond,
		},
		ScheduleToggle: StepSpec{
			Selectors: []string{`label:has-text("定时发布")`},
			Settle:    time.Second,
		},
		ScheduleInput: StepSpec{
			Selectors: []string{`input[placeholder="选择日期和时间"]`},
			Settle:    time.Second,
		},
		PublishButton: StepSpec{
			Selectors: []string{`button:has-text("发布")`},
			Timeout:   2 * time.Minute,
			Settle:    3 * time.Second,
		},
		SuccessMarker: StepSpec{
			Selectors: []string{`text=/发布成功|已发布/`},
			Timeout:   30 * time.Second,
		},
	}
}
