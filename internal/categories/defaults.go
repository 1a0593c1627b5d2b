package categories

import "github.com/ivanquesadapalmero/planazo-backend/internal/database/models"

// Defaults is the category set loaded into a fresh database.
func Defaults() []models.Category {
	return []models.Category{
		{Name: "Deportes", Description: "Actividades deportivas y ejercicio", IconEmoji: "⚽", ColorHex: "#10B981", Active: true},
		{Name: "Cafés y Comida", Description: "Encuentros para tomar algo o comer", IconEmoji: "☕", ColorHex: "#F59E0B", Active: true},
		{Name: "Cultura", Description: "Museos, exposiciones y eventos culturales", IconEmoji: "🎭", ColorHex: "#8B5CF6", Active: true},
		{Name: "Música y Conciertos", Description: "Conciertos, festivales y eventos musicales", IconEmoji: "🎵", ColorHex: "#EC4899", Active: true},
		{Name: "Naturaleza y Senderismo", Description: "Excursiones, rutas y actividades al aire libre", IconEmoji: "🌲", ColorHex: "#059669", Active: true},
		{Name: "Juegos de Mesa", Description: "Quedadas para jugar juegos de mesa", IconEmoji: "🎲", ColorHex: "#EF4444", Active: true},
		{Name: "Cine y Series", Description: "Ver películas o series en grupo", IconEmoji: "🎬", ColorHex: "#3B82F6", Active: true},
		{Name: "Viajes", Description: "Escapadas y viajes en grupo", IconEmoji: "✈️", ColorHex: "#06B6D4", Active: true},
		{Name: "Fiestas y Eventos", Description: "Celebraciones y eventos sociales", IconEmoji: "🎉", ColorHex: "#F97316", Active: true},
		{Name: "Estudio y Trabajo", Description: "Sesiones de estudio o coworking", IconEmoji: "📚", ColorHex: "#6366F1", Active: true},
		{Name: "Mascotas", Description: "Quedadas con mascotas", IconEmoji: "🐕", ColorHex: "#84CC16", Active: true},
		{Name: "Otros", Description: "Otras actividades", IconEmoji: "🌟", ColorHex: "#6B7280", Active: true},
	}
}
