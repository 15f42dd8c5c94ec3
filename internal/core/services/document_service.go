package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/storage"
	"gbh-kioskhub/internal/core/domain"
)

// DocumentRenderer produces a shareable document for a proforma or a
// contract and returns its URL. Rendering is best-effort: create paths
// log a failure and continue without a document URL.
type DocumentRenderer interface {
	RenderProforma(ctx context.Context, proforma *models.Proforma, client *models.User) (string, error)
	RenderContract(ctx context.Context, contract *models.Contract) (string, error)
}

var errRendererDisabled = errors.New("document renderer not configured")

var proformaTemplate = template.Must(template.New("proforma").Parse(`<!DOCTYPE html>
<html lang="fr"><head><meta charset="utf-8"><title>Proforma {{.Number}}</title></head>
<body>
<h1>Proforma {{.Number}}</h1>
<p>Client : {{.ClientName}}</p>
<table>
<tr><td>Type de kiosque</td><td>{{.KioskType}}</td></tr>
<tr><td>Quantité</td><td>{{.Quantity}}</td></tr>
<tr><td>Prix de base</td><td>{{printf "%.0f" .BasePrice}} FCFA</td></tr>
<tr><td>Personnalisation</td><td>{{printf "%.0f" .BrandingPrice}} FCFA</td></tr>
<tr><td><strong>Total</strong></td><td><strong>{{printf "%.0f" .TotalAmount}} FCFA</strong></td></tr>
</table>
<p>Valable jusqu'au {{.ExpiryDate}}</p>
</body></html>`))

var contractTemplate = template.Must(template.New("contract").Parse(`<!DOCTYPE html>
<html lang="fr"><head><meta charset="utf-8"><title>Contrat {{.Number}}</title></head>
<body>
<h1>Contrat {{.Number}}</h1>
<p>{{.Title}}</p>
<p>Client : {{.ClientName}} — {{.ClientPhone}} — {{.ClientAddress}}</p>
<table>
<tr><td>Durée</td><td>{{.DurationMonths}} mois</td></tr>
<tr><td>Fréquence de paiement</td><td>{{.PaymentFrequency}}</td></tr>
<tr><td>Montant par échéance</td><td>{{printf "%.0f" .PaymentAmount}} FCFA</td></tr>
<tr><td><strong>Montant total</strong></td><td><strong>{{printf "%.0f" .TotalAmount}} FCFA</strong></td></tr>
</table>
</body></html>`))

// StoredRenderer renders HTML documents and uploads them to the MinIO
// document store.
type StoredRenderer struct {
	store *storage.DocumentStore
}

// NewStoredRenderer creates a renderer backed by the given store. A nil
// store yields a renderer that fails every call with a dependency error,
// which callers on create paths swallow.
func NewStoredRenderer(store *storage.DocumentStore) *StoredRenderer {
	if store == nil {
		logrus.Warn("Document store not configured, rendering disabled")
	}
	return &StoredRenderer{store: store}
}

type proformaDoc struct {
	Number        string
	ClientName    string
	KioskType     string
	Quantity      int
	BasePrice     float64
	BrandingPrice float64
	TotalAmount   float64
	ExpiryDate    string
}

type contractDoc struct {
	Number           string
	Title            string
	ClientName       string
	ClientPhone      string
	ClientAddress    string
	DurationMonths   int
	PaymentFrequency string
	PaymentAmount    float64
	TotalAmount      float64
}

// RenderProforma renders and stores a proforma document.
func (r *StoredRenderer) RenderProforma(ctx context.Context, proforma *models.Proforma, client *models.User) (string, error) {
	if r.store == nil {
		return "", errRendererDisabled
	}

	clientName := ""
	if client != nil {
		clientName = client.Name
	}

	var buf bytes.Buffer
	err := proformaTemplate.Execute(&buf, proformaDoc{
		Number:        proforma.ProformaNumber,
		ClientName:    clientName,
		KioskType:     proforma.KioskType,
		Quantity:      proforma.Quantity,
		BasePrice:     proforma.BasePrice,
		BrandingPrice: proforma.BrandingPrice,
		TotalAmount:   proforma.TotalAmount,
		ExpiryDate:    proforma.ExpiryDate.Format("02/01/2006"),
	})
	if err != nil {
		return "", err
	}

	return r.upload(ctx, "proforma", buf.Bytes())
}

// RenderContract renders and stores a contract document.
func (r *StoredRenderer) RenderContract(ctx context.Context, contract *models.Contract) (string, error) {
	if r.store == nil {
		return "", errRendererDisabled
	}

	var buf bytes.Buffer
	err := contractTemplate.Execute(&buf, contractDoc{
		Number:           contract.ContractNumber,
		Title:            contract.Title,
		ClientName:       contract.ClientName,
		ClientPhone:      contract.ClientPhone,
		ClientAddress:    contract.ClientAddress,
		DurationMonths:   contract.DurationMonths,
		PaymentFrequency: contract.PaymentFrequency,
		PaymentAmount:    contract.PaymentAmount,
		TotalAmount:      contract.TotalAmount,
	})
	if err != nil {
		return "", err
	}

	return r.upload(ctx, "contract", buf.Bytes())
}

func (r *StoredRenderer) upload(ctx context.Context, prefix string, data []byte) (string, error) {
	objectName, err := r.store.Put(ctx, prefix, data, "text/html; charset=utf-8")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}

	url, err := r.store.URL(ctx, objectName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
	return url, nil
}
