package inventory

import "github.com/vyrodovalexey/rental-inventory/internal/model"

// DemoInventory returns the sample items a fresh session starts with.
func DemoInventory() []model.InventoryItem {
	return []model.InventoryItem{
		{
			ID:              "1",
			Name:            "Professional DSLR Camera",
			UserDescription: "Canon EOS 5D Mark IV with 24-70mm lens. Perfect for events and portraits.",
			AIDescription: "Capture life's moments in stunning detail with this professional-grade DSLR camera. " +
				"Ideal for both seasoned photographers and aspiring creators, it delivers breathtaking image quality for any occasion.",
			PricePerDay: 50,
			ImageURL:    "https://images.unsplash.com/photo-1512756290469-ec264b7fbf87?q=80&w=1024",
			Status:      model.StatusAvailable,
		},
		{
			ID:              "2",
			Name:            "High-Performance Laptop",
			UserDescription: "MacBook Pro 16-inch, M1 Pro chip, 16GB RAM. Great for video editing and development.",
			AIDescription: "Unleash your productivity with this powerhouse laptop, engineered for demanding tasks. " +
				"Its sleek design and blazing-fast performance make it the ultimate tool for professionals on the go.",
			PricePerDay: 75,
			ImageURL:    "https://images.unsplash.com/photo-1541807084-5c52b6b3adef?q=80&w=1024",
			Status:      model.StatusRented,
		},
		{
			ID:              "3",
			Name:            "Camping Tent for 4",
			UserDescription: "Spacious and waterproof tent. Easy to set up.",
			AIDescription: "Embark on your next outdoor adventure with this reliable and spacious 4-person tent. " +
				"Designed for comfort and durability, it's your home away from home in the great outdoors.",
			PricePerDay: 25,
			ImageURL:    "https://images.unsplash.com/photo-1478131143081-80f7f84ca84d?q=80&w=1024",
			Status:      model.StatusAvailable,
		},
	}
}
