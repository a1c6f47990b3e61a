package server

// Server объединяет HTTP-серверы отдельных сущностей.
type Server struct {
	ProfileServer
}

func NewServer(
	profileServer ProfileServer,
) Server {
	return Server{
		ProfileServer: profileServer,
	}
}
