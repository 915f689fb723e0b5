package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/linkdeck/internal/config"
	"github.com/linkdeck/internal/db"
	"github.com/linkdeck/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器：创建演示所有者、页面、链接与短链，并回填最近 30 天的访问记录。
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	owner := createDemoOwner()
	pages := createDemoPages(owner)
	links := createDemoLinks(owner, pages)
	redirect := createDemoRedirect()
	backfillHistory(pages, links, redirect)

	fmt.Println("演示数据生成完成！")
	fmt.Println("所有者: demo (密码: demo123)")
	fmt.Printf("页面: %d 个，链接: %d 条\n", len(pages), len(links))
}

func createDemoOwner() db.Owner {
	var owner db.Owner
	if err := db.DB.Where("handle = ?", "demo").First(&owner).Error; err == nil {
		fmt.Println("所有者 demo 已存在，跳过创建")
		return owner
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	owner = db.Owner{Handle: "demo", Password: string(hashed), Role: db.RoleOwner}
	if err := db.DB.Create(&owner).Error; err != nil {
		log.Fatal("创建所有者失败:", err)
	}
	return owner
}

func createDemoPages(owner db.Owner) []db.Page {
	pages := []db.Page{
		{
			OwnerID:    owner.ID,
			PageIndex:  0,
			Slug:       "home",
			Title:      "Demo 主页",
			Bio:        "## 你好\n\n这里是演示主页，收录了我常用的链接。",
			IsDefault:  true,
			IsActive:   true,
			Visibility: db.VisibilityPublic,
		},
		{
			OwnerID:    owner.ID,
			PageIndex:  1,
			Slug:       "projects",
			Title:      "项目合集",
			Bio:        "正在进行中的项目列表。",
			IsActive:   true,
			Visibility: db.VisibilityPublic,
		},
		{
			OwnerID:    owner.ID,
			PageIndex:  2,
			Slug:       "drafts",
			Title:      "私密草稿",
			Bio:        "仅自己可见的草稿页。",
			IsActive:   true,
			Visibility: db.VisibilityPrivate,
		},
	}

	for i := range pages {
		if err := db.DB.Create(&pages[i]).Error; err != nil {
			log.Fatal("创建页面失败:", err)
		}
	}
	return pages
}

func createDemoLinks(owner db.Owner, pages []db.Page) []db.Link {
	links := []db.Link{
		{OwnerID: owner.ID, PageID: &pages[0].ID, Title: "博客", TargetURL: "https://blog.example.com"},
		{OwnerID: owner.ID, PageID: &pages[0].ID, Title: "GitHub", TargetURL: "https://github.com/example"},
		{OwnerID: owner.ID, PageID: &pages[1].ID, Title: "开源项目", TargetURL: "https://github.com/example/project"},
	}

	for i := range links {
		if err := db.DB.Create(&links[i]).Error; err != nil {
			log.Fatal("创建链接失败:", err)
		}
	}
	return links
}

func createDemoRedirect() db.Redirect {
	redirect := db.Redirect{Slug: "launch", TargetURL: "https://example.com/launch"}
	if err := db.DB.Where(db.Redirect{Slug: redirect.Slug}).FirstOrCreate(&redirect).Error; err != nil {
		log.Fatal("创建短链失败:", err)
	}
	return redirect
}

// backfillHistory 通过与线上相同的记录路径回填访问历史，保证计数器与日聚合一致。
func backfillHistory(pages []db.Page, links []db.Link, redirect db.Redirect) {
	analytics := service.NewAnalyticsService(db.DB, nil)
	now := time.Now().UTC()

	for dayOffset := 29; dayOffset >= 0; dayOffset-- {
		at := now.AddDate(0, 0, -dayOffset)

		for _, page := range pages {
			if page.Visibility != db.VisibilityPublic {
				continue
			}
			for i := 0; i < 1+rand.Intn(8); i++ {
				if err := analytics.RecordPageView(page.ID, "127.0.0.1", "", at); err != nil {
					log.Fatal("回填页面浏览失败:", err)
				}
			}
		}

		for _, link := range links {
			for i := 0; i < rand.Intn(4); i++ {
				if err := analytics.RecordLinkClick(link.ID, at); err != nil {
					log.Fatal("回填链接点击失败:", err)
				}
			}
		}

		if rand.Intn(2) == 0 {
			if err := analytics.RecordRedirectClick(redirect.ID, at); err != nil {
				log.Fatal("回填短链点击失败:", err)
			}
		}
	}
}
