package ofx

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a decoded investment statement document.
type Statement struct {
	SignOn     SignOn
	Response   InvStatement
	Securities []Security
	// Dropped lists the paths of the records of unknown subtypes.
	Dropped []string
}

// Security returns the catalog entry of a security id.
func (s *Statement) Security(id SecurityID) (Security, bool) {
	for _, sec := range s.Securities {
		if sec.Info().SecID == id {
			return sec, true
		}
	}
	return nil, false
}

// SignOn is the signon response.
type SignOn struct {
	Status     Status
	Org        string
	ServerTime time.Time
	Language   string
}

// Status of a request, Code 0 means success.
type Status struct {
	Code     int64
	Severity string
	Message  string
}

// InvStatement is the investment statement response of one account.
type InvStatement struct {
	Status       Status
	AsOf         time.Time
	CurDef       string
	Account      InvAccount
	Transactions *TransactionList // nil when the statement has no transaction list
	Positions    []Position
}

// InvAccount identifies the brokerage account.
type InvAccount struct {
	BrokerID string
	AcctID   string
	AcctKey  string
}

// TransactionList holds the transactions of a statement, in document order.
type TransactionList struct {
	Start      time.Time
	End        time.Time
	Bank       []*BankTransaction
	Investment []Transaction
}

// Currency of an amount when it differs from the statement default.
type Currency struct {
	Rate decimal.Decimal
	Code string
}

// BankAccount identifies a bank or credit card account.
type BankAccount struct {
	BankID   string
	BranchID string
	AcctID   string
	AcctType string
	AcctKey  string
}

// StmtTrn is a cash transaction.
type StmtTrn struct {
	Type          string // CREDIT, DEBIT, INT, DIV, FEE, ...
	Posted        time.Time
	User          time.Time
	Avail         time.Time
	Amount        decimal.Decimal
	FITID         string
	CorrectFITID  string
	CorrectAction string
	ServerID      string
	CheckNum      string
	RefNum        string
	SIC           string
	PayeeID       string
	Name          string
	BankAcctTo    *BankAccount
	CCAcctTo      *BankAccount
	Memo          string
	Currency      *Currency
}

// BankTransaction is a cash transaction in one of the brokerage sub-accounts.
type BankTransaction struct {
	SubAcctFund string // CASH, MARGIN, SHORT, OTHER
	StmtTrn
}

// SecurityID identifies a security, usually by CUSIP.
type SecurityID struct {
	UniqueID     string
	UniqueIDType string
}

// Key is the stable code of the security: "TYPE:ID".
func (id SecurityID) Key() string { return id.UniqueIDType + ":" + id.UniqueID }

func (id SecurityID) String() string { return id.Key() }

// InvTran is the part common to all investment transactions.
type InvTran struct {
	FITID         string
	ServerID      string
	TradeDate     time.Time
	SettleDate    time.Time
	ReversalFITID string
	Memo          string
}

// Tran gives access to the common part of any investment transaction.
func (t *InvTran) Tran() *InvTran { return t }

// Transaction is one of the investment transaction variants:
// *BuyMF, *SellMF, *BuyStock, *SellStock, *BuyDebt, *SellDebt, *BuyOption,
// *SellOption, *BuyOther, *SellOther, *MarginInterest, *Income, *InvExpense,
// *Transfer.
type Transaction interface {
	Tran() *InvTran
}

// Investment is the body of a buy or a sell.
type Investment struct {
	InvTran
	SecID            SecurityID
	Units            decimal.Decimal
	UnitPrice        decimal.Decimal
	Markup           decimal.Decimal
	Commission       decimal.Decimal
	Taxes            decimal.Decimal
	Fees             decimal.Decimal
	Load             decimal.Decimal
	Withholding      decimal.Decimal
	StateWithholding decimal.Decimal
	Penalty          decimal.Decimal
	TaxExempt        bool
	Total            decimal.Decimal
	Gain             decimal.NullDecimal
	Currency         *Currency
	OrigCurrency     *Currency
	SubAcctSec       string
	SubAcctFund      string
	LoanID           string
	Inv401kSource    string
}

// Inv gives access to the body of any buy or sell.
func (i *Investment) Inv() *Investment { return i }

// Trade is a buy or a sell of a security.
type Trade interface {
	Transaction
	Inv() *Investment
}

type BuyMF struct {
	Investment
	BuyType string
}

type SellMF struct {
	Investment
	SellType string
}

type BuyStock struct {
	Investment
	BuyType string // BUY, BUYTOCOVER
}

type SellStock struct {
	Investment
	SellType string // SELL, SELLSHORT
}

type BuyDebt struct {
	Investment
	AccruedInterest decimal.NullDecimal
}

type SellDebt struct {
	Investment
	SellReason      string // CALL, SELL, MATURITY
	AccruedInterest decimal.NullDecimal
}

type BuyOption struct {
	Investment
	OptBuyType        string // BUYTOOPEN, BUYTOCLOSE
	SharesPerContract int64
}

type SellOption struct {
	Investment
	OptSellType       string // SELLTOCLOSE, SELLTOOPEN
	SharesPerContract int64
	RelFITID          string
	RelType           string
	Secured           string
}

type BuyOther struct{ Investment }

type SellOther struct{ Investment }

// Multiplier returns the number of shares per unit of a trade: the shares
// per contract for options, one otherwise.
func Multiplier(t Trade) decimal.Decimal {
	switch t := t.(type) {
	case *BuyOption:
		return decimal.NewFromInt(t.SharesPerContract)
	case *SellOption:
		return decimal.NewFromInt(t.SharesPerContract)
	}
	return decimal.NewFromInt(1)
}

// MarginInterest is interest paid on a margin balance.
type MarginInterest struct {
	InvTran
	SubAcctFund  string
	SubAcctSec   string
	Total        decimal.Decimal
	Currency     *Currency
	OrigCurrency *Currency
}

// Income is a dividend, interest, or capital gains distribution.
type Income struct {
	InvTran
	SecID         SecurityID
	IncomeType    string // CGLONG, CGSHORT, DIV, INTEREST, MISC
	SubAcctFund   string
	SubAcctSec    string
	Total         decimal.Decimal
	TaxExempt     bool
	Withholding   decimal.Decimal
	Currency      *Currency
	OrigCurrency  *Currency
	Inv401kSource string
}

// InvExpense is an expense attached to a security.
type InvExpense struct {
	InvTran
	SecID         SecurityID
	SubAcctSec    string
	SubAcctFund   string
	Total         decimal.Decimal
	Currency      *Currency
	OrigCurrency  *Currency
	Inv401kSource string
}

// Transfer moves securities in or out of the account.
type Transfer struct {
	InvTran
	SecID         SecurityID
	SubAcctSec    string
	Units         decimal.Decimal
	TferAction    string // IN, OUT
	PosType       string // LONG, SHORT
	InvAcctFrom   *InvAccount
	AvgCostBasis  decimal.NullDecimal
	UnitPrice     decimal.Decimal
	DTPurchase    time.Time
	Inv401kSource string
}

// SecurityClass is the kind of a security catalog entry.
type SecurityClass int

const (
	StockClass SecurityClass = iota
	MutualFundClass
	DebtClass
	OptionClass
	OtherClass
)

func (c SecurityClass) String() string {
	switch c {
	case StockClass:
		return "stock"
	case MutualFundClass:
		return "mutual fund"
	case DebtClass:
		return "debt"
	case OptionClass:
		return "option"
	default:
		return "other"
	}
}

// SecurityInfo is the part common to all security catalog entries.
type SecurityInfo struct {
	SecID     SecurityID
	Name      string
	Ticker    string
	FIID      string
	Rating    string
	UnitPrice decimal.NullDecimal
	AsOf      time.Time
	Currency  *Currency
	Memo      string
}

// Info gives access to the common part of any catalog entry.
func (s *SecurityInfo) Info() *SecurityInfo { return s }

// Security is a catalog entry: *StockInfo, *MFInfo, *DebtInfo, *OptInfo or
// *OtherInfo.
type Security interface {
	Info() *SecurityInfo
	Class() SecurityClass
}

type StockInfo struct {
	SecurityInfo
	StockType    string
	Yield        decimal.NullDecimal
	YieldAsOf    time.Time
	AssetClass   string
	FIAssetClass string
}

type MFInfo struct {
	SecurityInfo
	MFType    string
	Yield     decimal.NullDecimal
	YieldAsOf time.Time
}

type DebtInfo struct {
	SecurityInfo
	ParValue     decimal.Decimal
	DebtType     string // COUPON, ZERO
	DebtClass    string
	CouponRate   decimal.NullDecimal
	CouponDate   time.Time
	CouponFreq   string
	CallPrice    decimal.NullDecimal
	YieldToCall  decimal.NullDecimal
	CallDate     time.Time
	CallType     string
	YieldToMat   decimal.NullDecimal
	Maturity     time.Time
	AssetClass   string
	FIAssetClass string
}

type OptInfo struct {
	SecurityInfo
	OptType           string // PUT, CALL
	StrikePrice       decimal.Decimal
	Expire            time.Time
	SharesPerContract int64
	Underlying        SecurityID // zero when not reported
	AssetClass        string
	FIAssetClass      string
}

type OtherInfo struct {
	SecurityInfo
	TypeDesc     string
	AssetClass   string
	FIAssetClass string
}

func (*StockInfo) Class() SecurityClass { return StockClass }
func (*MFInfo) Class() SecurityClass    { return MutualFundClass }
func (*DebtInfo) Class() SecurityClass  { return DebtClass }
func (*OptInfo) Class() SecurityClass   { return OptionClass }
func (*OtherInfo) Class() SecurityClass { return OtherClass }

// InvPos is the part common to all positions.
type InvPos struct {
	SecID         SecurityID
	HeldInAcct    string // CASH, MARGIN, SHORT, OTHER
	PosType       string // LONG, SHORT
	Units         decimal.Decimal
	UnitPrice     decimal.Decimal
	MktVal        decimal.Decimal
	PriceAsOf     time.Time
	Currency      *Currency
	Memo          string
	Inv401kSource string
}

// Pos gives access to the common part of any position.
func (p *InvPos) Pos() *InvPos { return p }

// Position is a reported holding: *PosStock, *PosMF, *PosDebt, *PosOpt or
// *PosOther. A security may have several positions (one per lot).
type Position interface {
	Pos() *InvPos
}

type PosStock struct {
	InvPos
	UnitsStreet decimal.NullDecimal
	UnitsUser   decimal.NullDecimal
	ReinvDiv    bool
}

type PosMF struct {
	InvPos
	UnitsStreet decimal.NullDecimal
	UnitsUser   decimal.NullDecimal
	ReinvDiv    bool
	ReinvCG     bool
}

type PosDebt struct{ InvPos }

type PosOpt struct {
	InvPos
	Secured string
}

type PosOther struct{ InvPos }
