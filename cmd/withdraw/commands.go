package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/retiros-api/internal/application/cartsync"
	"github.com/jhoicas/retiros-api/internal/application/withdrawal"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/infrastructure/remote"
	"github.com/jhoicas/retiros-api/pkg/money"
)

type commands struct {
	session *withdrawal.Session
	client  *remote.Client
	owner   string
	out     io.Writer
}

func (c *commands) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "show":
		c.show()
		return nil
	case "pick":
		if len(args) != 1 {
			return errors.New("uso: pick <producto>")
		}
		return c.pick(ctx, args[0])
	case "add":
		if len(args) < 2 {
			return errors.New("uso: add <producto> <opción>=<cantidad> ...")
		}
		return c.add(ctx, args[0], args[1:])
	case "delete":
		if len(args) != 1 {
			return errors.New("uso: delete <fila>")
		}
		row, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("fila inválida %q", args[0])
		}
		return c.report(c.session.DeleteLine(ctx, row-1))
	case "distributor":
		if len(args) != 1 {
			return errors.New("uso: distributor <código|->")
		}
		code := args[0]
		if code == "-" {
			code = ""
		}
		return c.report(c.session.SelectDistributor(ctx, code))
	case "submit":
		return c.submit(ctx)
	case "clear":
		if err := c.client.ClearCart(ctx, c.owner); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "carrito vaciado")
		return nil
	}
	return fmt.Errorf("comando desconocido %q", name)
}

func (c *commands) show() {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTOS\t\t")
	for _, p := range c.session.Products() {
		mark := " "
		if !p.InStock {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t\n", mark, p.Code, p.Name)
	}
	fmt.Fprintln(tw, "(* sin stock: solo pedido directo)\t\t")
	_ = tw.Flush()

	fmt.Fprintln(c.out)
	c.printCart()
}

func (c *commands) printCart() {
	state := c.session.State()
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPRODUCTO\tLOTE\tVENCE\tCANT\tPRECIO\tTOTAL")
	for i, l := range state.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			i+1, l.ProductCode, source(l.Key()), dash(l.ExpiryDate), l.Qty, money.Format(l.Price), money.Format(l.Total))
	}
	_ = tw.Flush()

	fmt.Fprintf(c.out, "\nUnidades: %d   Total: %s   Efectivo requerido: %s\n",
		state.TotalUnits, money.Format(state.TotalAmount), money.Format(state.RequiredCash))
	if state.DistributorCode == "" {
		fmt.Fprintln(c.out, "Distribuidor que retira: (ninguno)")
		return
	}
	fmt.Fprintf(c.out, "Distribuidor que retira: %s   Disponible: %s\n",
		state.DistributorCode, money.Format(c.session.AvailableCash()))
}

func (c *commands) pick(ctx context.Context, product string) error {
	pick, err := c.session.PickProduct(ctx, product)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPCIÓN\tLOTE\tVENCE\tDISPONIBLE\tPRECIO")
	for i, opt := range pick.Options {
		avail := "sin límite"
		if qty, bounded := opt.Remaining(); bounded {
			avail = strconv.Itoa(qty)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, source(opt.Key()), dash(opt.Key().ExpiryDate), avail, money.Format(opt.Price()))
	}
	return tw.Flush()
}

func (c *commands) add(ctx context.Context, product string, args []string) error {
	quantities, err := parseQuantities(args)
	if err != nil {
		return err
	}
	pick, err := c.session.PickProduct(ctx, product)
	if err != nil {
		return err
	}
	return c.report(c.session.Confirm(ctx, pick, quantities))
}

func (c *commands) submit(ctx context.Context) error {
	receipt, err := c.session.Withdraw(ctx)
	var partial *domain.PartialCommitError
	switch {
	case errors.As(err, &partial):
		fmt.Fprintf(c.out, "Retiro %s registrado, pero el carrito no se limpió.\n", partial.WithdrawalID)
		fmt.Fprintln(c.out, "No reenvíe el retiro; ejecute `withdraw clear` para vaciar el carrito.")
		return &partialExit{err: err}
	case err != nil:
		return err
	}
	fmt.Fprintln(c.out, receipt.Message)
	return nil
}

func (c *commands) report(outcome cartsync.Outcome, err error) error {
	if err != nil {
		return err
	}
	if outcome == cartsync.SyncDiscarded {
		fmt.Fprintln(c.out, "(respuesta descartada: hay un cambio más reciente)")
	}
	c.printCart()
	return nil
}

// parseQuantities interpreta "opción=cantidad".
func parseQuantities(args []string) (map[int]int, error) {
	out := make(map[int]int, len(args))
	for _, arg := range args {
		idx, qty, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("cantidad inválida %q (use opción=cantidad)", arg)
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return nil, fmt.Errorf("opción inválida %q", idx)
		}
		q, err := strconv.Atoi(qty)
		if err != nil {
			return nil, fmt.Errorf("cantidad inválida %q", qty)
		}
		out[i] += q
	}
	return out, nil
}

func source(k entity.AllocationKey) string {
	if k.IsDirectOrder() {
		return "Pedido directo"
	}
	return k.OwnerCode
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
