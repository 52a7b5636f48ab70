package catalog

import "bookstore/internal/domain/model"

const defaultCopies = 3

type seedBook struct {
	title  string
	author string
	isbn   string
	price  int64
}

var academicSeed = []seedBook{
	{"Acids And Bases", "Dr. Smith", "9780123456789", 1596},
	{"Equity In Science", "Dr. Johnson", "9780123456790", 1596},
	{"International History", "Prof. Lee", "9780123456791", 1790},
	{"World's Oceans", "Dr. Brown", "9780123456792", 1907},
	{"Dictionary", "Oxford Press", "9780123456793", 1596},
	{"Quantitative Finance", "Dr. Wilson", "9780123456794", 1790},
	{"Standard Mathematics", "Prof. Davis", "9780123456795", 1596},
	{"Essential Grammar", "Dr. Taylor", "9780123456796", 500},
	{"Fundamentals Of Economics", "Prof. Clark", "9780123456797", 1596},
	{"Astronomy Guide", "Dr. Adams", "9780123456798", 1656},
	{"Artificial Intelligence Basics", "Prof. White", "9780123456799", 1596},
	{"Cybersecurity", "Dr. Green", "9780123456800", 1907},
}

var fictionSeed = []seedBook{
	{"The Great Adventure", "John Doe", "9781123456789", 1200},
	{"Mystery of the Night", "Jane Smith", "9781123456790", 1500},
	{"Space Odyssey", "Arthur Clarke", "9781123456791", 1800},
	{"The Last Kingdom", "Bernard Cornwell", "9781123456792", 1300},
	{"1984", "George Orwell", "9781123456793", 1100},
	{"Pride and Prejudice", "Jane Austen", "9781123456794", 1000},
	{"The Hobbit", "J.R.R. Tolkien", "9781123456795", 1400},
	{"Dune", "Frank Herbert", "9781123456796", 1600},
	{"The Alchemist", "Paulo Coelho", "9781123456797", 900},
	{"The Da Vinci Code", "Dan Brown", "9781123456798", 1500},
	{"Harry Potter", "J.K. Rowling", "9781123456799", 1700},
	{"The Shining", "Stephen King", "9781123456800", 1300},
}

var religiousSeed = []seedBook{
	{"The Holy Bible", "Various", "9782123456789", 2000},
	{"The Quran", "Various", "9782123456790", 1800},
	{"Bhagavad Gita", "Vyasa", "9782123456791", 1500},
	{"The Torah", "Various", "9782123456792", 1700},
	{"The Upanishads", "Various", "9782123456793", 1600},
	{"The Book of Mormon", "Joseph Smith", "9782123456794", 1400},
	{"Tao Te Ching", "Laozi", "9782123456795", 1200},
	{"The Art of Happiness", "Dalai Lama", "9782123456796", 1300},
	{"The Power of Now", "Eckhart Tolle", "9782123456797", 1100},
	{"The Purpose Driven Life", "Rick Warren", "9782123456798", 1000},
	{"Mere Christianity", "C.S. Lewis", "9782123456799", 900},
	{"The Case for Christ", "Lee Strobel", "9782123456800", 1500},
}

// DefaultBooks は初期在庫（各カテゴリ12冊、各3部）。IDは1から振る。
func DefaultBooks() []model.Book {
	groups := []struct {
		cat   model.Category
		books []seedBook
	}{
		{model.CategoryAcademic, academicSeed},
		{model.CategoryFiction, fictionSeed},
		{model.CategoryReligious, religiousSeed},
	}

	out := make([]model.Book, 0, len(academicSeed)+len(fictionSeed)+len(religiousSeed))
	var id int64
	for _, g := range groups {
		for _, s := range g.books {
			id++
			out = append(out, model.Book{
				ID:       id,
				ISBN:     s.isbn,
				Title:    s.title,
				Author:   s.author,
				Price:    s.price,
				Category: g.cat,
				ImageURL: "/images/" + s.isbn + ".jpg",
				Stock:    defaultCopies,
			})
		}
	}
	return out
}
