package main

import (
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"time"

	"infoshare/internal/models"
	"infoshare/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// views are registered under the name handlers pass to Render.
var views = []string{
	"index.html",
	"search.html",
	"trending.html",
	"famous.html",
	"error.html",
	"auth/login.html",
	"auth/register.html",
	"post/form.html",
	"post/detail.html",
	"notification/list.html",
	"user/profile.html",
	"user/points.html",
	"user/edit.html",
	"user/password.html",
	"user/voted_up.html",
	"category/list.html",
	"category/posts.html",
	"moderation/queue.html",
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}
	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(components)+1)
		files = append(files, layouts...)
		files = append(files, components...)
		return append(files, view)
	}

	for _, name := range views {
		r.AddFromFilesFuncs(name, funcMap(), assemble(templatesDir+"/views/"+name)...)
	}
	return r
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo":  timeAgo,
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"markdown": utils.RenderMarkdown,
		"comment":  utils.RenderComment,
		"preview": func(s string) string {
			return utils.Preview(s, 200)
		},
		"statusName": models.StatusName,
		"rank": func(tier int) string {
			name, _ := utils.AchievementRank(tier)
			return name
		},
		"rankColor": func(tier int) string {
			_, color := utils.AchievementRank(tier)
			return color
		},
		"urlquery":   url.QueryEscape,
		"containsID": containsID,
		"postURL": func(id uint) string {
			return fmt.Sprintf("/post/%d", id)
		},
	}
}

// containsID tolerates a missing list so forms can render before any input.
func containsID(ids interface{}, id uint) bool {
	list, ok := ids.([]uint)
	if !ok {
		return false
	}
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
