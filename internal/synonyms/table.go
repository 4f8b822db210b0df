package synonyms

// table maps what users say to the canonical category, trade and tag
// vocabulary used in the catalog. Keys and values are stored in
// normalized form (lowercase, no diacritics). The mapping is additive
// and many-to-many: one colloquial word can point at several canonical
// tokens.
var table = map[string][]string{
	// Gastronomy
	"pizza":        {"pizzeria"},
	"pizzas":       {"pizzeria"},
	"fugazzeta":    {"pizzeria"},
	"muzzarella":   {"pizzeria"},
	"empanada":     {"empanadas", "gastronomia"},
	"empanadas":    {"gastronomia", "pizzeria"},
	"hamburguesa":  {"hamburgueseria", "hamburguesas"},
	"hamburguesas": {"hamburgueseria"},
	"burger":       {"hamburgueseria", "hamburguesas"},
	"sushi":        {"sushi", "japones", "rolls"},
	"rolls":        {"sushi", "japones"},
	"helado":       {"heladeria"},
	"helados":      {"heladeria"},
	"facturas":     {"panaderia"},
	"pan":          {"panaderia"},
	"medialunas":   {"panaderia", "cafeteria"},
	"torta":        {"panaderia", "pasteleria"},
	"tortas":       {"panaderia", "pasteleria"},
	"cafe":         {"cafeteria", "cafe"},
	"cafecito":     {"cafeteria", "cafe"},
	"desayuno":     {"cafeteria", "cafe", "brunch"},
	"merienda":     {"cafeteria", "cafe"},
	"brunch":       {"cafeteria", "cafe", "brunch"},
	"alfajor":      {"alfajores", "kiosco"},
	"alfajores":    {"kiosco", "chocolate"},
	"chocolate":    {"kiosco", "cafeteria"},
	"carne":        {"carniceria", "asado"},
	"asado":        {"carniceria", "parrilla", "restaurante"},
	"achuras":      {"carniceria"},
	"vacio":        {"carniceria"},
	"pollo":        {"carniceria", "granja"},
	"verdura":      {"verduleria"},
	"verduras":     {"verduleria"},
	"fruta":        {"verduleria", "frutas"},
	"frutas":       {"verduleria"},
	"comer":        {"gastronomia", "restaurante"},
	"comida":       {"gastronomia", "restaurante"},
	"cenar":        {"gastronomia", "restaurante"},
	"almorzar":     {"gastronomia", "restaurante", "almuerzo"},
	"morfi":        {"gastronomia", "restaurante"},
	"parrilla":     {"parrilla", "restaurante", "asado", "carne"},
	"pastas":       {"restaurante", "pastas"},
	"milanesa":     {"restaurante", "milanesas"},
	"milanesas":    {"restaurante"},
	"birra":        {"cerveceria", "bar", "cerveza"},
	"cerveza":      {"cerveceria", "bar", "cerveza artesanal"},
	"trago":        {"bar", "cerveceria"},
	"tragos":       {"bar", "cerveceria"},
	"picada":       {"bar", "cerveceria", "picadas"},
	"picadas":      {"bar", "cerveceria"},

	// Health
	"remedio":      {"farmacia", "medicamentos"},
	"remedios":     {"farmacia", "medicamentos"},
	"medicamento":  {"farmacia", "medicamentos"},
	"medicamentos": {"farmacia"},
	"pastilla":     {"farmacia", "medicamentos"},
	"pastillas":    {"farmacia", "medicamentos"},
	"perfumeria":   {"farmacia", "cosmeticos"},
	"cosmeticos":   {"farmacia", "perfumeria"},
	"oculista":     {"optica", "anteojos", "lentes"},
	"anteojos":     {"optica"},
	"lentes":       {"optica"},

	// Pets
	"veterinario": {"veterinaria", "mascotas"},
	"perro":       {"veterinaria", "petshop", "mascotas"},
	"gato":        {"veterinaria", "petshop", "mascotas"},
	"mascota":     {"veterinaria", "petshop", "mascotas"},
	"mascotas":    {"veterinaria", "petshop"},
	"alimento":    {"petshop", "veterinaria"},

	// Home services
	"plomero":       {"plomeria"},
	"cano":          {"plomeria", "plomero"},
	"caneria":       {"plomeria", "plomero"},
	"agua":          {"plomeria", "plomero"},
	"electricista":  {"electricidad", "electrico"},
	"enchufe":       {"electricidad", "electricista"},
	"luz":           {"electricidad", "electricista"},
	"cortocircuito": {"electricidad", "electricista"},
	"albanil":       {"albanileria", "construccion"},
	"obra":          {"albanileria", "construccion"},
	"reforma":       {"albanileria", "construccion"},
	"construccion":  {"albanileria"},
	"llave":         {"cerrajeria", "cerrajero"},
	"cerradura":     {"cerrajeria", "cerrajero"},
	"cerrajero":     {"cerrajeria"},
	"pintar":        {"pintura", "pintor"},
	"pintor":        {"pintura"},
	"pasto":         {"jardineria", "jardinero"},
	"jardin":        {"jardineria", "jardinero"},
	"poda":          {"jardineria", "jardinero"},
	"jardinero":     {"jardineria"},
	"gas":           {"gasista"},
	"estufa":        {"gasista"},
	"calefon":       {"gasista", "plomeria"},
	"calefaccion":   {"gasista"},
	"aire":          {"aire acondicionado"},
	"split":         {"aire acondicionado"},
	"acondicionado": {"aire acondicionado"},
	"mudanza":       {"flete", "fletes", "mudanza"},
	"mudanzas":      {"flete", "fletes"},
	"flete":         {"fletes", "mudanza"},

	// Shopping
	"coca":         {"kiosco", "bebidas"},
	"golosinas":    {"kiosco"},
	"cigarrillos":  {"kiosco"},
	"snacks":       {"kiosco"},
	"galletitas":   {"kiosco", "almacen"},
	"bebida":       {"kiosco", "bebidas"},
	"bebidas":      {"kiosco"},
	"ferreteria":   {"ferreteria", "herramientas"},
	"herramienta":  {"ferreteria", "herramientas"},
	"herramientas": {"ferreteria"},
	"tornillo":     {"ferreteria", "tornillos"},
	"tornillos":    {"ferreteria"},
	"clavo":        {"ferreteria"},
	"clavos":       {"ferreteria"},
	"pintura":      {"ferreteria", "pintura"},
	"materiales":   {"ferreteria", "construccion", "corralon"},
	"corralon":     {"ferreteria", "construccion", "materiales"},
	"arena":        {"ferreteria", "construccion", "materiales"},

	// Fitness
	"gimnasio": {"gimnasio", "fitness", "musculacion"},
	"gym":      {"gimnasio", "fitness", "musculacion"},
	"crossfit": {"crossfit", "funcional", "gimnasio"},
	"entrenar": {"gimnasio", "fitness", "crossfit"},
	"spinning": {"gimnasio", "spinning"},
	"yoga":     {"gimnasio", "yoga"},
	"pileta":   {"gimnasio", "pileta", "natacion"},
	"natacion": {"gimnasio", "pileta"},
	"paddle":   {"paddle", "tenis"},
	"tenis":    {"tenis", "paddle"},

	// Personal care
	"peluqueria": {"peluqueria", "corte"},
	"peluquero":  {"peluqueria"},
	"corte":      {"peluqueria", "barberia"},
	"tintura":    {"peluqueria", "color"},
	"barberia":   {"barberia", "barba"},
	"barbero":    {"barberia", "barba"},
	"barba":      {"barberia"},
	"unas":       {"estetica"},
	"depilacion": {"estetica"},

	// Laundry
	"lavadero":   {"lavadero", "lavanderia"},
	"lavanderia": {"lavadero", "lavanderia"},
	"lavar":      {"lavadero", "lavanderia"},

	// Vehicles
	"auto":     {"mecanico", "taller"},
	"mecanico": {"mecanico", "taller"},
	"rueda":    {"gomeria"},
	"goma":     {"gomeria"},
	"pinchada": {"gomeria"},
	"nafta":    {"estacion de servicio"},
}
