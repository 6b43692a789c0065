package repositories

// Backend REST surface consumed by the repositories.
const (
	routeLogin    = "/api/auth/login"
	routeRegister = "/api/auth/registro"

	routeProperties = "/api/imoveis"
	routeUnits      = "/api/unidades"
	routeTenants    = "/api/locatarios"
)
