// Carga el catálogo y las cuentas iniciales en Mongo. Idempotente: los
// productos se upsertean por slug y los usuarios solo se crean si no existen.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"samarithanna-api/internal/config"
	"samarithanna-api/internal/model"
	"samarithanna-api/internal/repository"
)

var products = []model.Product{
	{
		Name:         "Pan Árabe",
		Slug:         "pan-arabe",
		Category:     "Pan",
		ProductQty:   "5 piezas",
		Presentation: "Bolsa",
		Image:        "/images/Pan Árabe.jpg",
		Price:        120,
		CountInStock: 10,
		Description:  "Pan elaborado a base de harina de trigo, levadura, azúcar y sal; perfecto para acompañarlo con ingredientes dulces o salados.",
	},
	{
		Name:         "Jocoque Seco",
		Slug:         "jocoque-seco",
		Category:     "Jocoque",
		ProductQty:   "500 g",
		Presentation: "Tarro",
		Image:        "/images/Jocoque Seco.jpg",
		Price:        250,
		CountInStock: 20,
		Description:  "Producto tradicional preparado a base de leche fermentada, excelente para acompañar diversos platillos.",
	},
	{
		Name:         "Rosquillas con Ajonjolí y Anís",
		Slug:         "rosquillas-ajonjoli",
		Category:     "Pan",
		ProductQty:   "12 piezas",
		Presentation: "Bolsa",
		Image:        "/images/Rosquillas con Ajonjolí y Anís.jpg",
		Price:        25,
		CountInStock: 15,
		Description:  "Galleta en forma de rosca con anís, espolvoreada con ajonjolí tostado.",
	},
	{
		Name:         "Arracadas de Ajonjolí",
		Slug:         "arracadas-ajonjoli",
		Category:     "Pan",
		ProductQty:   "10 piezas",
		Presentation: "Bolsa",
		Image:        "/images/Arracadas de Ajonjolí.jpg",
		Price:        65,
		CountInStock: 5,
		Description:  "Galleta salada cubierta con ajonjolí tostado, perfecta para botanear con jocoque, humus o tabule.",
	},
	{
		Name:         "Dedos de Novia",
		Slug:         "dedos-de-novia",
		Category:     "Pan",
		ProductQty:   "8 piezas",
		Presentation: "Charola",
		Image:        "/images/Dedos de Novia.jpg",
		Price:        65,
		CountInStock: 5,
		Description:  "Relleno de nuez y bañado en miel especial para dulces árabes; crujiente por fuera y suave por dentro.",
	},
	{
		Name:         "Pastel de Dátil con Nuez",
		Slug:         "pastel-de-datil",
		Category:     "Pan",
		ProductQty:   "1 pieza",
		Presentation: "Charola",
		Image:        "/images/Pastel de Dátil con Nuez.jpg",
		Price:        65,
		CountInStock: 5,
		Description:  "Pay elaborado con nueces y dátiles, ideal para compartir en una merienda o evento especial.",
	},
}

var users = []struct {
	name     string
	email    string
	password string
	userType string
	admitted bool
}{
	{"Raul", "raul.loy@gmail.com", "changeme", model.RoleAdmin, true},
	{"User", "user@example.com", "123456", model.RoleCustomer, true},
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	productRepo := repository.NewMongoProductRepository(db)
	for i := range products {
		if err := productRepo.Upsert(ctx, &products[i]); err != nil {
			log.Fatalf("Error cargando producto %s: %v", products[i].Slug, err)
		}
	}
	log.Printf("%d productos cargados", len(products))

	userRepo := repository.NewMongoUserRepository(db)
	for _, u := range users {
		if _, err := userRepo.FindByEmail(ctx, u.email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatal(err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		if err := userRepo.Insert(ctx, &model.User{
			Name:       u.name,
			Email:      u.email,
			Password:   string(hashed),
			UserType:   u.userType,
			IsAdmitted: u.admitted,
		}); err != nil {
			log.Fatalf("Error creando usuario %s: %v", u.email, err)
		}
		log.Printf("Usuario %s creado", u.email)
	}
}
