package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/la-clef-asso/laclef-news/backend/internal/config"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

func main() {
	/**********************************************
	 * Créer le logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * Charger la configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de charger la configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Créer le client SMTP
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("impossible de créer le client SMTP", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// Vérifier que le serveur SMTP répond
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("impossible de joindre le serveur SMTP", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Connexion à RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("impossible de joindre RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("impossible d'ouvrir le canal", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"email_queue", // nom de la file
		true,          // durable
		false,         // pas de suppression automatique sans consommateur
		false,         // non exclusive
		false,         // attendre la confirmation de RabbitMQ
		nil,           // pas d'arguments supplémentaires
	)
	if err != nil {
		logger.Error("impossible de déclarer la file", slog.String("error", err.Error()))
		return
	}

	// Écouter CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name, // file
		"",     // identifiant du consommateur attribué par RabbitMQ
		false,  // pas d'acquittement automatique
		false,  // non exclusive
		false,  // no-local, non supporté par RabbitMQ
		false,  // attendre la réponse de RabbitMQ
		nil,    // pas d'arguments supplémentaires
	)
	if err != nil {
		logger.Error("impossible de consommer la file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Contexte d'arrêt de la goroutine de consommation
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("message reçu", slog.String("message", string(msg.Body)))

				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("message illisible", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// Construire l'email
				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("impossible de définir l'expéditeur", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(mailMessage.To); err != nil {
					logger.Error("impossible de définir le destinataire", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// Choisir le modèle selon le type de message
				switch mailMessage.Type {
				case "create_user":
					tmpl, err := template.ParseFiles("./templates/nouveau_compte.html")
					if err != nil {
						logger.Error("impossible de lire le modèle d'email", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
						logger.Error("impossible de composer le corps de l'email", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("La CLEF News - Votre compte")
				case "reset_password":
					tmpl, err := template.ParseFiles("./templates/reinitialisation_mdp.html")
					if err != nil {
						logger.Error("impossible de lire le modèle d'email", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
						logger.Error("impossible de composer le corps de l'email", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("La CLEF News - Réinitialisation du mot de passe")
				case "change_email":
					tmpl, err := template.ParseFiles("./templates/changement_email.html")
					if err != nil {
						logger.Error("impossible de lire le modèle d'email", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
						logger.Error("impossible de composer le corps de l'email", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("La CLEF News - Changement d'email")
				default:
					logger.Error("type de message non pris en charge", slog.String("type", mailMessage.Type))
					_ = msg.Nack(false, false)
					continue
				}

				// Envoyer l'email
				if err := client.DialAndSend(m); err != nil {
					logger.Error("échec de l'envoi", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // remettre le message dans la file
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("en attente de messages... (CTRL+C pour quitter)")
	<-sigChan

	slog.Info("arrêt du mail worker...")
	cancel()
	wg.Wait()
	slog.Info("mail worker arrêté")
}
