package chain

// Hand-written ABI fragments for the four contracts the agent touches.
// Only the methods actually called are declared; full bindings via abigen
// are not worth carrying for this surface.

const erc20ABIJSON = `[
	{
		"name": "name",
		"type": "function",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}],
		"stateMutability": "view"
	},
	{
		"name": "symbol",
		"type": "function",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}],
		"stateMutability": "view"
	},
	{
		"name": "decimals",
		"type": "function",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint8"}],
		"stateMutability": "view"
	},
	{
		"name": "totalSupply",
		"type": "function",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"name": "balanceOf",
		"type": "function",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"name": "allowance",
		"type": "function",
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"name": "approve",
		"type": "function",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable"
	}
]`

const factoryABIJSON = `[
	{
		"name": "getPair",
		"type": "function",
		"inputs": [
			{"name": "tokenA", "type": "address"},
			{"name": "tokenB", "type": "address"}
		],
		"outputs": [{"name": "pair", "type": "address"}],
		"stateMutability": "view"
	}
]`

const pairABIJSON = `[
	{
		"name": "getReserves",
		"type": "function",
		"inputs": [],
		"outputs": [
			{"name": "reserve0", "type": "uint112"},
			{"name": "reserve1", "type": "uint112"},
			{"name": "blockTimestampLast", "type": "uint32"}
		],
		"stateMutability": "view"
	},
	{
		"name": "token0",
		"type": "function",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view"
	},
	{
		"name": "token1",
		"type": "function",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view"
	}
]`

const routerABIJSON = `[
	{
		"name": "getAmountsOut",
		"type": "function",
		"inputs": [
			{"name": "amountIn", "type": "uint256"},
			{"name": "path", "type": "address[]"}
		],
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "view"
	},
	{
		"name": "swapExactETHForTokens",
		"type": "function",
		"inputs": [
			{"name": "amountOutMin", "type": "uint256"},
			{"name": "path", "type": "address[]"},
			{"name": "to", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "payable"
	},
	{
		"name": "swapExactTokensForETH",
		"type": "function",
		"inputs": [
			{"name": "amountIn", "type": "uint256"},
			{"name": "amountOutMin", "type": "uint256"},
			{"name": "path", "type": "address[]"},
			{"name": "to", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "nonpayable"
	}
]`
