package database

import (
	"context"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/config"
)

// --- Handles globaux ---
var (
	Mongo   *mongo.Client
	MongoDB *mongo.Database
	Redis   *redis.Client
	MinIO   *minio.Client
)

// ConnectDatabases initialise MongoDB, Redis et MinIO. Tout échec est fatal :
// le serveur ne démarre pas à moitié connecté.
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connectMongo(ctx)
	connectRedis(ctx)
	connectMinIO(ctx)

	log.Println("✅ Toutes les bases de données sont connectées")
}

// =============================================
// MONGODB
// =============================================
func connectMongo(ctx context.Context) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.App.MongoURI))
	if err != nil {
		log.Fatal("❌ Erreur connexion MongoDB:", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("❌ MongoDB injoignable:", err)
	}

	Mongo = client
	MongoDB = client.Database(config.App.MongoDB)
	log.Println("✅ Connecté à MongoDB :", config.App.MongoDB)

	ensureIndexes(ctx)
}

// ensureIndexes pose les index dont le code dépend (unicité de l'email).
func ensureIndexes(ctx context.Context) {
	_, err := Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatal("❌ Erreur création index unique sur users.email:", err)
	}
}

// Accès collections. Une collection par type d'entité.
func Products() *mongo.Collection {
	return MongoDB.Collection("products")
}

func Orders() *mongo.Collection {
	return MongoDB.Collection("orders")
}

func Users() *mongo.Collection {
	return MongoDB.Collection("users")
}

func StockMovements() *mongo.Collection {
	return MongoDB.Collection("stock_movements")
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.App.RedisHost,
		Password: config.App.RedisPassword,
		DB:       0,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context) {
	client, err := minio.New(config.App.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.App.MinioAccessKey, config.App.MinioSecretKey, ""),
		Secure: config.App.MinioUseSSL,
	})
	if err != nil {
		log.Fatal("❌ Erreur connexion MinIO:", err)
	}

	bucketName := config.App.MinioBucket
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("❌ Erreur vérification bucket MinIO:", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("❌ Erreur création bucket MinIO:", err)
		}
		log.Println("🪣 Bucket créé :", bucketName)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", bucketName)
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", config.App.MinioEndpoint)
}

// Close libère les connexions au shutdown.
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if Mongo != nil {
		if err := Mongo.Disconnect(ctx); err != nil {
			log.Println("⚠️ Erreur fermeture MongoDB:", err)
		}
	}
	if Redis != nil {
		_ = Redis.Close()
	}
}
