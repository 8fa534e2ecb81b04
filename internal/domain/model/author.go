package model

type Author struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
}

func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// 書籍と著者の関連（多対多）
type BookAuthor struct {
	ISBN     string `gorm:"column:isbn;primaryKey;type:varchar(20)"`
	AuthorID int64  `gorm:"primaryKey"`
}
