package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcomanda "github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/comanda"
	appestoque "github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/estoque"
	appfiscal "github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/application/fiscal"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/domain"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/infrastructure/nuvemfiscal"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/internal/interfaces/http"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/config"
	"github.com/sagtecnologia/pedidos-estoque-system-distribuidora-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	produtoRepo := postgres.NewProdutoRepository(pool)
	movimentoRepo := postgres.NewMovimentoRepository(pool)
	comandaRepo := postgres.NewComandaRepository(pool)
	serieRepo := postgres.NewSerieRepository(pool)
	vendaRepo := postgres.NewVendaRepository(pool)

	clock := domain.SystemClock{}

	projetor := appestoque.NewProjetor(produtoRepo, movimentoRepo, log)
	ledger := appestoque.NewLedger(produtoRepo, movimentoRepo, projetor, clock, log)
	consultas := appestoque.NewConsultas(produtoRepo, movimentoRepo)

	reservas := appcomanda.NewAgregadorReservas(produtoRepo, comandaRepo)
	comandaUC := appcomanda.NewUseCase(comandaRepo, produtoRepo, vendaRepo, reservas, ledger, clock, log)

	sequencia := appfiscal.NewAlocadorSequencia(serieRepo, log)
	gateway := nuvemfiscal.NewClient(nuvemfiscal.Config{
		ClientID:     cfg.Fiscal.ClientID,
		ClientSecret: cfg.Fiscal.ClientSecret,
		Ambiente:     cfg.Fiscal.Ambiente,
	}, log)
	emissor := appfiscal.NewEmissor(vendaRepo, comandaRepo, produtoRepo, sequencia, gateway,
		appfiscal.Config{
			Serie:   cfg.Fiscal.Serie,
			Timeout: time.Duration(cfg.Fiscal.TimeoutSegundos) * time.Second,
		}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pedidos & Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledger,
		Projetor:    projetor,
		Consultas:   consultas,
		ComandaUC:   comandaUC,
		Reservas:    reservas,
		Emissor:     emissor,
		ComandaRepo: comandaRepo,
		ProdutoRepo: produtoRepo,
		VendaRepo:   vendaRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
