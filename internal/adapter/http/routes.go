package http

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes wires the public catalog surface and the authenticated
// seller/favorites surface. Static segments are registered before the :id
// parameter so they are not shadowed.
func RegisterRoutes(app *fiber.App, listings *ListingHandler, images *ImageHandler, favorites *FavoriteHandler, auth fiber.Handler) {
	api := app.Group("/api")

	l := api.Group("/listings")
	l.Get("/", listings.Search)
	l.Get("/recent", listings.GetRecent)
	l.Get("/featured", listings.GetFeatured)
	l.Get("/makes", listings.GetMakes)
	l.Get("/makes/:make/models", listings.GetModels)
	l.Get("/stats", listings.GetStats)
	l.Get("/my", listings.GetMyListings, auth)
	l.Get("/:id", listings.GetByID)
	l.Get("/:id/images", images.GetForListing)
	l.Get("/:id/images/primary", images.GetPrimary)

	l.Post("/", listings.Create, auth)
	l.Put("/:id", listings.Update, auth)
	l.Delete("/:id", listings.Delete, auth)
	l.Post("/:id/images", images.Add, auth)
	l.Post("/:id/images/batch", images.AddBatch, auth)
	l.Post("/:id/images/upload", images.Upload, auth)
	l.Put("/:id/images/order", images.Reorder, auth)

	img := api.Group("/images")
	img.Put("/:id", images.UpdateDescription, auth)
	img.Delete("/:id", images.Delete, auth)
	img.Put("/:id/primary", images.SetPrimary, auth)

	fav := api.Group("/favorites")
	fav.Post("/lists", favorites.CreateList, auth)
	fav.Get("/lists", favorites.GetMyLists, auth)
	fav.Get("/lists/default", favorites.GetDefaultList, auth)
	fav.Get("/lists/:id", favorites.GetList, auth)
	fav.Put("/lists/:id", favorites.UpdateList, auth)
	fav.Delete("/lists/:id", favorites.DeleteList, auth)
	fav.Get("/lists/:id/listings", favorites.GetListListings, auth)
	fav.Post("/lists/:id/items/:listingId", favorites.AddItem, auth)
	fav.Delete("/lists/:id/items/:listingId", favorites.RemoveItem, auth)
	fav.Get("/contains/:listingId", favorites.Contains, auth)
	fav.Get("/count", favorites.Count, auth)
}
