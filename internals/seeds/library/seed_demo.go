// internals/seeds/library/seed_demo.go
package library

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
	loanModel "biblioteca_backend/internals/features/library/loans/model"
	loanService "biblioteca_backend/internals/features/library/loans/service"
)

type demoTitle struct {
	name     string
	author   string
	category string
	stock    int
}

var demoTitles = []demoTitle{
	{"El principito", "Antoine de Saint-Exupéry", "Infantil", 3},
	{"Cien años de soledad", "Gabriel García Márquez", "Novela", 2},
	{"Martín Fierro", "José Hernández", "Poesía", 2},
	{"El Aleph", "Jorge Luis Borges", "Cuento", 2},
	{"Rayuela", "Julio Cortázar", "Novela", 1},
	{"La Ilíada", "Homero", "Clásicos", 1},
	{"Don Quijote de la Mancha", "Miguel de Cervantes", "Clásicos", 2},
	{"Mafalda 1", "Quino", "Historieta", 4},
	{"El matadero", "Esteban Echeverría", "Cuento", 1},
	{"Breve historia de la Argentina", "José Luis Romero", "Historia", 1},
	{"Matemática estás ahí", "Adrián Paenza", "Ciencias", 2},
	{"La metamorfosis", "Franz Kafka", "Novela", 1},
}

var demoStudents = []struct {
	name string
	dni  string
}{
	{"Juana Pérez", "45123456"},
	{"Luca Gómez", "46234567"},
	{"Mora Fernández", "47345678"},
	{"Thiago Díaz", "44456789"},
	{"Valentina Ruiz", "45567890"},
	{"Benjamín Castro", "46678901"},
}

// SeedDemo loads a small demo library: titles with stock, and nLoans loans
// in mixed states (open, overdue, returned). Idempotent per title name.
func SeedDemo(db *gorm.DB, nLoans int) error {
	rng := rand.New(rand.NewSource(42))
	today := loanService.DateOnly(time.Now())

	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range demoTitles {
			var title catalogModel.TitleModel
			err := tx.Where("title_name = ?", t.name).First(&title).Error
			if err == nil {
				continue // already seeded
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			title = catalogModel.TitleModel{
				TitleName:   t.name,
				TitleAuthor: t.author,
				TitleKind:   catalogModel.TitleKindBook,
			}
			if err := tx.Create(&title).Error; err != nil {
				return err
			}

			var cat catalogModel.CategoryModel
			if err := tx.Where("category_name = ?", t.category).
				FirstOrCreate(&cat, catalogModel.CategoryModel{CategoryName: t.category}).Error; err != nil {
				return err
			}
			if err := tx.Model(&title).Association("Categories").Append(&cat); err != nil {
				return err
			}

			for i := 0; i < t.stock; i++ {
				ej := catalogModel.ExemplarModel{
					ExemplarTitleID: title.TitleID,
					ExemplarCode:    fmt.Sprintf("%s-%02d", initials(t.name), i+1),
					ExemplarStatus:  catalogModel.ExemplarAvailable,
				}
				if err := tx.Create(&ej).Error; err != nil {
					return err
				}
			}
		}

		var free []catalogModel.ExemplarModel
		if err := tx.Where("exemplar_status = ?", catalogModel.ExemplarAvailable).
			Order("exemplar_created_at").Find(&free).Error; err != nil {
			return err
		}

		created := 0
		for i := 0; i < nLoans && i < len(free); i++ {
			ej := &free[i]
			st := demoStudents[rng.Intn(len(demoStudents))]

			// Thirds: open on time, overdue, returned.
			loan := loanModel.LoanModel{
				LoanExemplarID:  &ej.ExemplarID,
				LoanStudentName: st.name,
				LoanStudentDNI:  st.dni,
				LoanStatus:      loanModel.LoanActive,
			}
			switch i % 3 {
			case 0:
				loan.LoanDate = today.AddDate(0, 0, -3)
				loan.LoanDueDate = today.AddDate(0, 0, 4+rng.Intn(10))
			case 1:
				loan.LoanDate = today.AddDate(0, 0, -20)
				loan.LoanDueDate = today.AddDate(0, 0, -(1 + rng.Intn(5)))
			case 2:
				loan.LoanDate = today.AddDate(0, 0, -15)
				loan.LoanDueDate = today.AddDate(0, 0, -2)
				loan.LoanStatus = loanModel.LoanReturned
			}

			if err := tx.Create(&loan).Error; err != nil {
				return err
			}
			if loan.IsOpen() {
				if err := tx.Model(ej).
					Update("exemplar_status", catalogModel.ExemplarLoaned).Error; err != nil {
					return err
				}
			}
			created++
		}

		log.Printf("🌱 Seed demo listo: %d títulos, %d préstamos.", len(demoTitles), created)
		return nil
	})
}

func initials(name string) string {
	out := make([]rune, 0, 3)
	for _, w := range []rune(name) {
		if w >= 'A' && w <= 'Z' {
			out = append(out, w)
		}
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		out = []rune{'X'}
	}
	return string(out)
}
