package ofx

// Schemas of the investment statement records. Field names are the Go field
// names, tags are lowercase OFX tag names.

var statusSchema = NewSchema("STATUS",
	func(r Record) any {
		return Status{Code: r.Int("Code"), Severity: r.String("Severity"), Message: r.String("Message")}
	},
	Required("Code", Int, ""),
	Required("Severity", Str, ""),
	Optional("Message", Str, ""),
)

var signOnSchema = NewSchema("SONRS",
	func(r Record) any {
		return SignOn{
			Status:     Value[Status](r, "Status"),
			Org:        r.String("Org"),
			ServerTime: r.Time("ServerTime"),
			Language:   r.String("Language"),
		}
	},
	Required("Status", Nested(statusSchema), ""),
	Required("Org", Str, "").Deep(), // FI/ORG
	Required("ServerTime", Timestamp, "dtserver"),
	Optional("Language", Str, ""),
)

var currencySchema = NewSchema("CURRENCY",
	func(r Record) any { return &Currency{Rate: r.Decimal("Rate"), Code: r.String("Code")} },
	Required("Rate", Dec, "currate"),
	Required("Code", Str, "cursym"),
)

var secIDSchema = NewSchema("SECID",
	func(r Record) any {
		return SecurityID{UniqueID: r.String("UniqueID"), UniqueIDType: r.String("UniqueIDType")}
	},
	Required("UniqueID", Str, ""),
	Required("UniqueIDType", Str, ""),
)

var invAccountSchema = NewSchema("INVACCTFROM",
	func(r Record) any {
		return InvAccount{BrokerID: r.String("BrokerID"), AcctID: r.String("AcctID"), AcctKey: r.String("AcctKey")}
	},
	Required("BrokerID", Str, ""),
	Required("AcctID", Str, ""),
	Optional("AcctKey", Str, ""),
)

var bankAccountSchema = NewSchema("BANKACCT",
	func(r Record) any {
		return &BankAccount{
			BankID:   r.String("BankID"),
			BranchID: r.String("BranchID"),
			AcctID:   r.String("AcctID"),
			AcctType: r.String("AcctType"),
			AcctKey:  r.String("AcctKey"),
		}
	},
	Required("BankID", Str, ""),
	Optional("BranchID", Str, ""),
	Required("AcctID", Str, ""),
	Optional("AcctType", Str, ""),
	Optional("AcctKey", Str, ""),
)

var stmtTrnSchema = NewSchema("STMTTRN",
	func(r Record) any {
		return StmtTrn{
			Type:          r.String("Type"),
			Posted:        r.Time("Posted"),
			User:          r.Time("User"),
			Avail:         r.Time("Avail"),
			Amount:        r.Decimal("Amount"),
			FITID:         r.String("FITID"),
			CorrectFITID:  r.String("CorrectFITID"),
			CorrectAction: r.String("CorrectAction"),
			ServerID:      r.String("ServerID"),
			CheckNum:      r.String("CheckNum"),
			RefNum:        r.String("RefNum"),
			SIC:           r.String("SIC"),
			PayeeID:       r.String("PayeeID"),
			Name:          r.String("Name"),
			BankAcctTo:    Value[*BankAccount](r, "BankAcctTo"),
			CCAcctTo:      Value[*BankAccount](r, "CCAcctTo"),
			Memo:          r.String("Memo"),
			Currency:      Value[*Currency](r, "Currency"),
		}
	},
	Required("Type", Str, "trntype"),
	Required("Posted", Timestamp, "dtposted"),
	Optional("User", Timestamp, "dtuser"),
	Optional("Avail", Timestamp, "dtavail"),
	Required("Amount", Dec, "trnamt"),
	Required("FITID", Str, ""),
	Optional("CorrectFITID", Str, ""),
	Optional("CorrectAction", Str, ""),
	Optional("ServerID", Str, "srvrtid"),
	Optional("CheckNum", Str, ""),
	Optional("RefNum", Str, ""),
	Optional("SIC", Str, ""),
	Optional("PayeeID", Str, ""),
	Optional("Name", Str, ""),
	Optional("BankAcctTo", Nested(bankAccountSchema), ""),
	Optional("CCAcctTo", Nested(bankAccountSchema), ""),
	Optional("Memo", Str, ""),
	Optional("Currency", Nested(currencySchema), ""),
)

var bankTranSchema = NewSchema("INVBANKTRAN",
	func(r Record) any {
		return &BankTransaction{SubAcctFund: r.String("SubAcctFund"), StmtTrn: Value[StmtTrn](r, "StmtTrn")}
	},
	Required("StmtTrn", Nested(stmtTrnSchema), ""),
	Required("SubAcctFund", Str, ""),
)

var invTranSchema = NewSchema("INVTRAN",
	func(r Record) any {
		return InvTran{
			FITID:         r.String("FITID"),
			ServerID:      r.String("ServerID"),
			TradeDate:     r.Time("TradeDate"),
			SettleDate:    r.Time("SettleDate"),
			ReversalFITID: r.String("ReversalFITID"),
			Memo:          r.String("Memo"),
		}
	},
	Required("FITID", Str, ""),
	Optional("ServerID", Str, "srvrtid"),
	Required("TradeDate", Timestamp, "dttrade"),
	Optional("SettleDate", Timestamp, "dtsettle"),
	Optional("ReversalFITID", Str, ""),
	Optional("Memo", Str, ""),
)

// investmentSchema decodes both INVBUY and INVSELL, the sell only fields
// are optional.
var investmentSchema = NewSchema("INVBUY/INVSELL",
	func(r Record) any {
		return Investment{
			InvTran:          Value[InvTran](r, "InvTran"),
			SecID:            Value[SecurityID](r, "SecID"),
			Units:            r.Decimal("Units"),
			UnitPrice:        r.Decimal("UnitPrice"),
			Markup:           r.Decimal("Markup"),
			Commission:       r.Decimal("Commission"),
			Taxes:            r.Decimal("Taxes"),
			Fees:             r.Decimal("Fees"),
			Load:             r.Decimal("Load"),
			Withholding:      r.Decimal("Withholding"),
			StateWithholding: r.Decimal("StateWithholding"),
			Penalty:          r.Decimal("Penalty"),
			TaxExempt:        r.Bool("TaxExempt"),
			Total:            r.Decimal("Total"),
			Gain:             r.NullDecimal("Gain"),
			Currency:         Value[*Currency](r, "Currency"),
			OrigCurrency:     Value[*Currency](r, "OrigCurrency"),
			SubAcctSec:       r.String("SubAcctSec"),
			SubAcctFund:      r.String("SubAcctFund"),
			LoanID:           r.String("LoanID"),
			Inv401kSource:    r.String("Inv401kSource"),
		}
	},
	Required("InvTran", Nested(invTranSchema), ""),
	Required("SecID", Nested(secIDSchema), ""),
	Required("Units", Dec, ""),
	Required("UnitPrice", Dec, ""),
	Optional("Markup", Dec, ""),
	Optional("Commission", Dec, ""),
	Optional("Taxes", Dec, ""),
	Optional("Fees", Dec, ""),
	Optional("Load", Dec, ""),
	Optional("Withholding", Dec, ""),
	Optional("StateWithholding", Dec, ""),
	Optional("Penalty", Dec, ""),
	Optional("TaxExempt", Bool, ""),
	Required("Total", Dec, ""),
	Optional("Gain", Dec, ""),
	Optional("Currency", Nested(currencySchema), ""),
	Optional("OrigCurrency", Nested(currencySchema), ""),
	Optional("SubAcctSec", Str, ""),
	Optional("SubAcctFund", Str, ""),
	Optional("LoanID", Str, ""),
	Optional("Inv401kSource", Str, ""),
)

func investment(r Record) Investment { return Value[Investment](r, "Investment") }

var (
	invBuy  = Required("Investment", Nested(investmentSchema), "invbuy")
	invSell = Required("Investment", Nested(investmentSchema), "invsell")
)

var buyMFSchema = NewSchema("BUYMF",
	func(r Record) any { return &BuyMF{Investment: investment(r), BuyType: r.String("BuyType")} },
	invBuy,
	Required("BuyType", Str, ""),
)

var sellMFSchema = NewSchema("SELLMF",
	func(r Record) any { return &SellMF{Investment: investment(r), SellType: r.String("SellType")} },
	invSell,
	Required("SellType", Str, ""),
)

var buyStockSchema = NewSchema("BUYSTOCK",
	func(r Record) any { return &BuyStock{Investment: investment(r), BuyType: r.String("BuyType")} },
	invBuy,
	Required("BuyType", Str, ""),
)

var sellStockSchema = NewSchema("SELLSTOCK",
	func(r Record) any { return &SellStock{Investment: investment(r), SellType: r.String("SellType")} },
	invSell,
	Required("SellType", Str, ""),
)

var buyDebtSchema = NewSchema("BUYDEBT",
	func(r Record) any {
		return &BuyDebt{Investment: investment(r), AccruedInterest: r.NullDecimal("AccruedInterest")}
	},
	invBuy,
	Optional("AccruedInterest", Dec, "accrdint"),
)

var sellDebtSchema = NewSchema("SELLDEBT",
	func(r Record) any {
		return &SellDebt{
			Investment:      investment(r),
			SellReason:      r.String("SellReason"),
			AccruedInterest: r.NullDecimal("AccruedInterest"),
		}
	},
	invSell,
	Optional("SellReason", Str, ""),
	Optional("AccruedInterest", Dec, "accrdint"),
)

var buyOptionSchema = NewSchema("BUYOPT",
	func(r Record) any {
		return &BuyOption{
			Investment:        investment(r),
			OptBuyType:        r.String("OptBuyType"),
			SharesPerContract: r.Int("SharesPerContract"),
		}
	},
	invBuy,
	Required("OptBuyType", Str, ""),
	Required("SharesPerContract", Int, "shperctrct"),
)

var sellOptionSchema = NewSchema("SELLOPT",
	func(r Record) any {
		return &SellOption{
			Investment:        investment(r),
			OptSellType:       r.String("OptSellType"),
			SharesPerContract: r.Int("SharesPerContract"),
			RelFITID:          r.String("RelFITID"),
			RelType:           r.String("RelType"),
			Secured:           r.String("Secured"),
		}
	},
	invSell,
	Required("OptSellType", Str, ""),
	Required("SharesPerContract", Int, "shperctrct"),
	Optional("RelFITID", Str, ""),
	Optional("RelType", Str, ""),
	Optional("Secured", Str, ""),
)

var buyOtherSchema = NewSchema("BUYOTHER",
	func(r Record) any { return &BuyOther{Investment: investment(r)} },
	invBuy,
)

var sellOtherSchema = NewSchema("SELLOTHER",
	func(r Record) any { return &SellOther{Investment: investment(r)} },
	invSell,
)

var marginInterestSchema = NewSchema("MARGININTEREST",
	func(r Record) any {
		return &MarginInterest{
			InvTran:      Value[InvTran](r, "InvTran"),
			SubAcctFund:  r.String("SubAcctFund"),
			SubAcctSec:   r.String("SubAcctSec"),
			Total:        r.Decimal("Total"),
			Currency:     Value[*Currency](r, "Currency"),
			OrigCurrency: Value[*Currency](r, "OrigCurrency"),
		}
	},
	Required("InvTran", Nested(invTranSchema), ""),
	Optional("SubAcctFund", Str, ""),
	Optional("SubAcctSec", Str, ""),
	Required("Total", Dec, ""),
	Optional("Currency", Nested(currencySchema), ""),
	Optional("OrigCurrency", Nested(currencySchema), ""),
)

var incomeSchema = NewSchema("INCOME",
	func(r Record) any {
		return &Income{
			InvTran:       Value[InvTran](r, "InvTran"),
			SecID:         Value[SecurityID](r, "SecID"),
			IncomeType:    r.String("IncomeType"),
			SubAcctFund:   r.String("SubAcctFund"),
			SubAcctSec:    r.String("SubAcctSec"),
			Total:         r.Decimal("Total"),
			TaxExempt:     r.Bool("TaxExempt"),
			Withholding:   r.Decimal("Withholding"),
			Currency:      Value[*Currency](r, "Currency"),
			OrigCurrency:  Value[*Currency](r, "OrigCurrency"),
			Inv401kSource: r.String("Inv401kSource"),
		}
	},
	Required("InvTran", Nested(invTranSchema), ""),
	Required("SecID", Nested(secIDSchema), ""),
	Required("IncomeType", Str, ""),
	Optional("SubAcctFund", Str, ""),
	Optional("SubAcctSec", Str, ""),
	Required("Total", Dec, ""),
	Optional("TaxExempt", Bool, ""),
	Optional("Withholding", Dec, ""),
	Optional("Currency", Nested(currencySchema), ""),
	Optional("OrigCurrency", Nested(currencySchema), ""),
	Optional("Inv401kSource", Str, ""),
)

var invExpenseSchema = NewSchema("INVEXPENSE",
	func(r Record) any {
		return &InvExpense{
			InvTran:       Value[InvTran](r, "InvTran"),
			SecID:         Value[SecurityID](r, "SecID"),
			SubAcctSec:    r.String("SubAcctSec"),
			SubAcctFund:   r.String("SubAcctFund"),
			Total:         r.Decimal("Total"),
			Currency:      Value[*Currency](r, "Currency"),
			OrigCurrency:  Value[*Currency](r, "OrigCurrency"),
			Inv401kSource: r.String("Inv401kSource"),
		}
	},
	Required("InvTran", Nested(invTranSchema), ""),
	Required("SecID", Nested(secIDSchema), ""),
	Optional("SubAcctSec", Str, ""),
	Optional("SubAcctFund", Str, ""),
	Required("Total", Dec, ""),
	Optional("Currency", Nested(currencySchema), ""),
	Optional("OrigCurrency", Nested(currencySchema), ""),
	Optional("Inv401kSource", Str, ""),
)

var transferSchema = NewSchema("TRANSFER",
	func(r Record) any {
		t := &Transfer{
			InvTran:       Value[InvTran](r, "InvTran"),
			SecID:         Value[SecurityID](r, "SecID"),
			SubAcctSec:    r.String("SubAcctSec"),
			Units:         r.Decimal("Units"),
			TferAction:    r.String("TferAction"),
			PosType:       r.String("PosType"),
			AvgCostBasis:  r.NullDecimal("AvgCostBasis"),
			UnitPrice:     r.Decimal("UnitPrice"),
			DTPurchase:    r.Time("DTPurchase"),
			Inv401kSource: r.String("Inv401kSource"),
		}
		if !r.IsNull("InvAcctFrom") {
			from := Value[InvAccount](r, "InvAcctFrom")
			t.InvAcctFrom = &from
		}
		return t
	},
	Required("InvTran", Nested(invTranSchema), ""),
	Required("SecID", Nested(secIDSchema), ""),
	Required("SubAcctSec", Str, ""),
	Required("Units", Dec, ""),
	Required("TferAction", Str, ""),
	Required("PosType", Str, ""),
	Optional("InvAcctFrom", Nested(invAccountSchema), ""),
	Optional("AvgCostBasis", Dec, ""),
	Optional("UnitPrice", Dec, ""),
	Optional("DTPurchase", Timestamp, ""),
	Optional("Inv401kSource", Str, ""),
)

// transactionSelector dispatches the children of INVTRANLIST. The list
// boundaries and the bank transactions are decoded by their own fields.
var transactionSelector = &Selector{
	Name: "investment transaction",
	Variants: map[string]*Schema{
		"buymf":          buyMFSchema,
		"sellmf":         sellMFSchema,
		"buystock":       buyStockSchema,
		"sellstock":      sellStockSchema,
		"buydebt":        buyDebtSchema,
		"selldebt":       sellDebtSchema,
		"buyopt":         buyOptionSchema,
		"sellopt":        sellOptionSchema,
		"buyother":       buyOtherSchema,
		"sellother":      sellOtherSchema,
		"margininterest": marginInterestSchema,
		"income":         incomeSchema,
		"invexpense":     invExpenseSchema,
		"transfer":       transferSchema,
	},
	Ignore: []string{"dtstart", "dtend", "invbanktran"},
}

var transactionListSchema = NewSchema("INVTRANLIST",
	func(r Record) any {
		return &TransactionList{
			Start:      r.Time("Start"),
			End:        r.Time("End"),
			Bank:       ListOf[*BankTransaction](r, "Bank"),
			Investment: ListOf[Transaction](r, "Investment"),
		}
	},
	Required("Start", Timestamp, "dtstart"),
	Required("End", Timestamp, "dtend"),
	Repeated("Bank", Nested(bankTranSchema), "invbanktran"),
	Repeated("Investment", Dispatch(transactionSelector), AnyTag),
)

var secInfoSchema = NewSchema("SECINFO",
	func(r Record) any {
		return SecurityInfo{
			SecID:     Value[SecurityID](r, "SecID"),
			Name:      r.String("Name"),
			Ticker:    r.String("Ticker"),
			FIID:      r.String("FIID"),
			Rating:    r.String("Rating"),
			UnitPrice: r.NullDecimal("UnitPrice"),
			AsOf:      r.Time("AsOf"),
			Currency:  Value[*Currency](r, "Currency"),
			Memo:      r.String("Memo"),
		}
	},
	Required("SecID", Nested(secIDSchema), ""),
	Required("Name", Str, "secname"),
	Optional("Ticker", Str, ""),
	Optional("FIID", Str, ""),
	Optional("Rating", Str, ""),
	Optional("UnitPrice", Dec, ""),
	Optional("AsOf", Timestamp, "dtasof"),
	Optional("Currency", Nested(currencySchema), ""),
	Optional("Memo", Str, ""),
)

var secInfo = Required("SecurityInfo", Nested(secInfoSchema), "secinfo")

func securityInfo(r Record) SecurityInfo { return Value[SecurityInfo](r, "SecurityInfo") }

var stockInfoSchema = NewSchema("STOCKINFO",
	func(r Record) any {
		return &StockInfo{
			SecurityInfo: securityInfo(r),
			StockType:    r.String("StockType"),
			Yield:        r.NullDecimal("Yield"),
			YieldAsOf:    r.Time("YieldAsOf"),
			AssetClass:   r.String("AssetClass"),
			FIAssetClass: r.String("FIAssetClass"),
		}
	},
	secInfo,
	Optional("StockType", Str, ""),
	Optional("Yield", Dec, ""),
	Optional("YieldAsOf", Timestamp, "dtyieldasof"),
	Optional("AssetClass", Str, ""),
	Optional("FIAssetClass", Str, ""),
)

var mfInfoSchema = NewSchema("MFINFO",
	func(r Record) any {
		return &MFInfo{
			SecurityInfo: securityInfo(r),
			MFType:       r.String("MFType"),
			Yield:        r.NullDecimal("Yield"),
			YieldAsOf:    r.Time("YieldAsOf"),
		}
	},
	secInfo,
	Optional("MFType", Str, ""),
	Optional("Yield", Dec, ""),
	Optional("YieldAsOf", Timestamp, "dtyieldasof"),
)

var debtInfoSchema = NewSchema("DEBTINFO",
	func(r Record) any {
		return &DebtInfo{
			SecurityInfo: securityInfo(r),
			ParValue:     r.Decimal("ParValue"),
			DebtType:     r.String("DebtType"),
			DebtClass:    r.String("DebtClass"),
			CouponRate:   r.NullDecimal("CouponRate"),
			CouponDate:   r.Time("CouponDate"),
			CouponFreq:   r.String("CouponFreq"),
			CallPrice:    r.NullDecimal("CallPrice"),
			YieldToCall:  r.NullDecimal("YieldToCall"),
			CallDate:     r.Time("CallDate"),
			CallType:     r.String("CallType"),
			YieldToMat:   r.NullDecimal("YieldToMat"),
			Maturity:     r.Time("Maturity"),
			AssetClass:   r.String("AssetClass"),
			FIAssetClass: r.String("FIAssetClass"),
		}
	},
	secInfo,
	Required("ParValue", Dec, ""),
	Required("DebtType", Str, ""),
	Optional("DebtClass", Str, ""),
	Optional("CouponRate", Dec, "couponrt"),
	Optional("CouponDate", Timestamp, "dtcoupon"),
	Optional("CouponFreq", Str, ""),
	Optional("CallPrice", Dec, ""),
	Optional("YieldToCall", Dec, ""),
	Optional("CallDate", Timestamp, "dtcall"),
	Optional("CallType", Str, ""),
	Optional("YieldToMat", Dec, ""),
	Optional("Maturity", Timestamp, "dtmat"),
	Optional("AssetClass", Str, ""),
	Optional("FIAssetClass", Str, ""),
)

var optInfoSchema = NewSchema("OPTINFO",
	func(r Record) any {
		return &OptInfo{
			SecurityInfo:      securityInfo(r),
			OptType:           r.String("OptType"),
			StrikePrice:       r.Decimal("StrikePrice"),
			Expire:            r.Time("Expire"),
			SharesPerContract: r.Int("SharesPerContract"),
			Underlying:        Value[SecurityID](r, "Underlying"),
			AssetClass:        r.String("AssetClass"),
			FIAssetClass:      r.String("FIAssetClass"),
		}
	},
	secInfo,
	Required("OptType", Str, ""),
	Required("StrikePrice", Dec, ""),
	Required("Expire", Timestamp, "dtexpire"),
	Required("SharesPerContract", Int, "shperctrct"),
	Optional("Underlying", Nested(secIDSchema), "secid"),
	Optional("AssetClass", Str, ""),
	Optional("FIAssetClass", Str, ""),
)

var otherInfoSchema = NewSchema("OTHERINFO",
	func(r Record) any {
		return &OtherInfo{
			SecurityInfo: securityInfo(r),
			TypeDesc:     r.String("TypeDesc"),
			AssetClass:   r.String("AssetClass"),
			FIAssetClass: r.String("FIAssetClass"),
		}
	},
	secInfo,
	Optional("TypeDesc", Str, ""),
	Optional("AssetClass", Str, ""),
	Optional("FIAssetClass", Str, ""),
)

var securitySelector = &Selector{
	Name: "security info",
	Variants: map[string]*Schema{
		"stockinfo": stockInfoSchema,
		"mfinfo":    mfInfoSchema,
		"debtinfo":  debtInfoSchema,
		"optinfo":   optInfoSchema,
		"otherinfo": otherInfoSchema,
	},
}

var invPosSchema = NewSchema("INVPOS",
	func(r Record) any {
		return InvPos{
			SecID:         Value[SecurityID](r, "SecID"),
			HeldInAcct:    r.String("HeldInAcct"),
			PosType:       r.String("PosType"),
			Units:         r.Decimal("Units"),
			UnitPrice:     r.Decimal("UnitPrice"),
			MktVal:        r.Decimal("MktVal"),
			PriceAsOf:     r.Time("PriceAsOf"),
			Currency:      Value[*Currency](r, "Currency"),
			Memo:          r.String("Memo"),
			Inv401kSource: r.String("Inv401kSource"),
		}
	},
	Required("SecID", Nested(secIDSchema), ""),
	Required("HeldInAcct", Str, ""),
	Required("PosType", Str, ""),
	Required("Units", Dec, ""),
	Required("UnitPrice", Dec, ""),
	Required("MktVal", Dec, ""),
	Required("PriceAsOf", Timestamp, "dtpriceasof"),
	Optional("Currency", Nested(currencySchema), ""),
	Optional("Memo", Str, ""),
	Optional("Inv401kSource", Str, ""),
)

var invPos = Required("InvPos", Nested(invPosSchema), "")

func position(r Record) InvPos { return Value[InvPos](r, "InvPos") }

var posStockSchema = NewSchema("POSSTOCK",
	func(r Record) any {
		return &PosStock{
			InvPos:      position(r),
			UnitsStreet: r.NullDecimal("UnitsStreet"),
			UnitsUser:   r.NullDecimal("UnitsUser"),
			ReinvDiv:    r.Bool("ReinvDiv"),
		}
	},
	invPos,
	Optional("UnitsStreet", Dec, ""),
	Optional("UnitsUser", Dec, ""),
	Optional("ReinvDiv", Bool, ""),
)

var posMFSchema = NewSchema("POSMF",
	func(r Record) any {
		return &PosMF{
			InvPos:      position(r),
			UnitsStreet: r.NullDecimal("UnitsStreet"),
			UnitsUser:   r.NullDecimal("UnitsUser"),
			ReinvDiv:    r.Bool("ReinvDiv"),
			ReinvCG:     r.Bool("ReinvCG"),
		}
	},
	invPos,
	Optional("UnitsStreet", Dec, ""),
	Optional("UnitsUser", Dec, ""),
	Optional("ReinvDiv", Bool, ""),
	Optional("ReinvCG", Bool, ""),
)

var posDebtSchema = NewSchema("POSDEBT",
	func(r Record) any { return &PosDebt{InvPos: position(r)} },
	invPos,
)

var posOptSchema = NewSchema("POSOPT",
	func(r Record) any { return &PosOpt{InvPos: position(r), Secured: r.String("Secured")} },
	invPos,
	Optional("Secured", Str, ""),
)

var posOtherSchema = NewSchema("POSOTHER",
	func(r Record) any { return &PosOther{InvPos: position(r)} },
	invPos,
)

var positionSelector = &Selector{
	Name: "position",
	Variants: map[string]*Schema{
		"posstock": posStockSchema,
		"posmf":    posMFSchema,
		"posdebt":  posDebtSchema,
		"posopt":   posOptSchema,
		"posother": posOtherSchema,
	},
}

var invStatementSchema = NewSchema("INVSTMTTRNRS",
	func(r Record) any {
		return InvStatement{
			Status:       Value[Status](r, "Status"),
			AsOf:         r.Time("AsOf"),
			CurDef:       r.String("CurDef"),
			Account:      Value[InvAccount](r, "Account"),
			Transactions: Value[*TransactionList](r, "Transactions"),
			Positions:    ListOf[Position](r, "Positions"),
		}
	},
	Required("Status", Nested(statusSchema), ""),
	Under("invstmtrs"),
	Required("AsOf", Timestamp, "dtasof"),
	Required("CurDef", Str, ""),
	Required("Account", Nested(invAccountSchema), "invacctfrom"),
	Optional("Transactions", Nested(transactionListSchema), "invtranlist"),
	Within("invposlist").Maybe(),
	Repeated("Positions", Dispatch(positionSelector), AnyTag),
)

var statementSchema = NewSchema("OFX",
	func(r Record) any {
		return &Statement{
			SignOn:     Value[SignOn](r, "SignOn"),
			Response:   Value[InvStatement](r, "Response"),
			Securities: ListOf[Security](r, "Securities"),
		}
	},
	Required("SignOn", Nested(signOnSchema), "sonrs").Deep(),
	Required("Response", Nested(invStatementSchema), "invstmttrnrs").Deep(),
	Within("seclist").Maybe(),
	Repeated("Securities", Dispatch(securitySelector), AnyTag),
)

// Schemas lists the schemas of every record type, by name.
func Schemas() map[string]*Schema {
	m := make(map[string]*Schema)
	for _, s := range []*Schema{
		statementSchema, signOnSchema, statusSchema, invStatementSchema, invAccountSchema,
		transactionListSchema, bankTranSchema, stmtTrnSchema, bankAccountSchema, currencySchema,
		invTranSchema, investmentSchema, secIDSchema,
		buyMFSchema, sellMFSchema, buyStockSchema, sellStockSchema, buyDebtSchema, sellDebtSchema,
		buyOptionSchema, sellOptionSchema, buyOtherSchema, sellOtherSchema,
		marginInterestSchema, incomeSchema, invExpenseSchema, transferSchema,
		secInfoSchema, stockInfoSchema, mfInfoSchema, debtInfoSchema, optInfoSchema, otherInfoSchema,
		invPosSchema, posStockSchema, posMFSchema, posDebtSchema, posOptSchema, posOtherSchema,
	} {
		m[s.Name] = s
	}
	return m
}
