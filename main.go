package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"diseasenet/config"
	"diseasenet/models"
	"diseasenet/providers/kegg"
	"diseasenet/providers/pubchem"
	"diseasenet/providers/uniprot"
	"diseasenet/services"
)

var (
	genesEnrichedCounter prometheus.Counter
	cacheHitsCounter     prometheus.Counter
)

func init() {
	genesEnrichedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "genes_enriched_total",
			Help: "Total number of genes enriched from the upstream registries.",
		},
	)
	cacheHitsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "disease_cache_hits_total",
			Help: "Total number of disease queries served from the cache.",
		},
	)
	prometheus.MustRegister(genesEnrichedCounter, cacheHitsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to cache database", zap.Error(err))
	}
	logging.Info("Successfully connected to cache database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Disease{}, &models.Pathway{}, &models.DiseasePathway{},
		&models.Gene{}, &models.DiseaseGene{},
		&models.UniprotProtein{}, &models.GeneUniprotBridge{},
		&models.UniprotPdb{}, &models.UniprotInteraction{},
		&models.Compound{}, &models.GeneCompoundActivity{},
	)

	// Registry-Clients und Engine verdrahten
	keggClient := kegg.NewClient(cfg, logging)
	uniprotClient := uniprot.NewClient(cfg, logging)
	pubchemClient := pubchem.NewClient(cfg, logging)
	tableService := services.NewTableService(cfg, db, logging, keggClient, uniprotClient, pubchemClient)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupTableRoutes(router, tableService, logging)

	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled cache refresh...")
		count := tableService.RefreshAll(context.Background())
		logging.Info("Scheduled cache refresh completed", zap.Int("diseases_refreshed", count))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      10 * time.Minute, // lange SSE-Läufe
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupTableRoutes(router *gin.Engine, svc *services.TableService, log *zap.Logger) {
	// Blockierender Endpunkt: liefert die komplette Tabelle oder
	// "kein Treffer" plus Vorschläge.
	router.POST("/process", func(c *gin.Context) {
		var req struct {
			DiseaseName string `json:"disease_name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No disease name provided"})
			return
		}

		records, fromCache := svc.BuildGeneTable(c.Request.Context(), req.DiseaseName)
		countResult(records, fromCache)

		if len(records) == 0 {
			suggestions := svc.SuggestDiseases(c.Request.Context(), req.DiseaseName)
			c.JSON(http.StatusNotFound, gin.H{"error": "No exact match found", "suggestions": suggestions})
			return
		}
		c.JSON(http.StatusOK, records)
	})

	router.POST("/suggest", func(c *gin.Context) {
		var req struct {
			DiseaseName string `json:"disease_name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No disease name provided"})
			return
		}
		c.JSON(http.StatusOK, svc.SuggestDiseases(c.Request.Context(), req.DiseaseName))
	})

	router.GET("/recent_searches", func(c *gin.Context) {
		diseases, err := svc.RecentDiseases(10)
		if err != nil {
			log.Error("Database query for recent searches failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		out := make([]gin.H, 0, len(diseases))
		for _, d := range diseases {
			out = append(out, gin.H{"name": d.DiseaseName, "id": d.KeggDiseaseID})
		}
		c.JSON(http.StatusOK, out)
	})

	// SSE-Endpunkt: progress-Events während der Anreicherung, dann result
	// und done. Bricht der Client ab, wird der Lauf kooperativ abgebrochen
	// und nichts persistiert.
	router.GET("/stream", func(c *gin.Context) {
		diseaseName := strings.TrimSpace(c.Query("disease_name"))
		if diseaseName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No disease name provided"})
			return
		}

		type sseEvent struct {
			name    string
			payload any
		}
		events := make(chan sseEvent, 16)
		ctx := c.Request.Context()

		emit := func(ev sseEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		go func() {
			defer close(events)
			records, fromCache := svc.BuildGeneTableWithProgress(ctx, diseaseName, func(completed, total int, geneSymbol string) {
				emit(sseEvent{"progress", gin.H{"current": completed, "total": total, "gene": geneSymbol}})
			})
			countResult(records, fromCache)

			if len(records) == 0 {
				suggestions := svc.SuggestDiseases(ctx, diseaseName)
				emit(sseEvent{"result", gin.H{"error": "No exact match found", "suggestions": suggestions}})
			} else {
				emit(sseEvent{"result", records})
			}
			emit(sseEvent{"done", gin.H{}})
		}()

		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("X-Accel-Buffering", "no")
		c.Stream(func(w io.Writer) bool {
			ev, ok := <-events
			if !ok {
				return false
			}
			c.SSEvent(ev.name, ev.payload)
			return ev.name != "done"
		})
	})

	log.Info("Table routes configured",
		zap.Strings("endpoints", []string{"/process", "/suggest", "/stream", "/recent_searches"}))
}

// countResult aktualisiert die Prometheus-Zähler für ein Abfrageergebnis.
func countResult(records []*models.GeneRecord, fromCache bool) {
	if fromCache {
		cacheHitsCounter.Inc()
		return
	}
	genesEnrichedCounter.Add(float64(len(records)))
}
