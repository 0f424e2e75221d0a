package models

// CategoryCount — количество статей в рубрике (для админ-панели).
type CategoryCount struct {
	Category Category `bson:"_id" json:"category"`
	Count    int64    `bson:"count" json:"count"`
}

// AdminStats — сводка для админ-панели.
type AdminStats struct {
	TotalArticles  int64           `json:"totalArticles"`
	TotalUsers     int64           `json:"totalUsers"`
	TotalViews     int64           `json:"totalViews"`
	TotalLikes     int64           `json:"totalLikes"`
	RecentArticles []Article       `json:"recentArticles"`
	CategoryStats  []CategoryCount `json:"categoryStats"`
}
